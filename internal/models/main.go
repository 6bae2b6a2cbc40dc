// Package models defines the core data structures for users and notes.
package models

// User represents an application account.
type User struct {
	// ID is the store-assigned identifier of the user.
	ID string
	// Username is the unique login name of the user.
	Username string
	// PasswordHash is the one-way hash of the user's password.
	// It is never serialized to clients.
	PasswordHash string
}

// Note is a text note that can be shared with other users.
type Note struct {
	// ID is assigned by the store on creation and never changes.
	ID string
	// Title is a short caption of the note.
	Title string
	// Content is the searchable body of the note.
	Content string
	// SharedWith lists the users the note was shared with, in share order.
	// Entries are free-form and may repeat.
	SharedWith []string
}
