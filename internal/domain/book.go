package domain

type Book struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	Rating        int    `json:"rating"`
	PublishedDate int    `json:"published_date"`
}
