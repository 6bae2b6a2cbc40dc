package client

// Note is a note as returned by the API.
type Note struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// User is the public view of an account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type noteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
