package model

// User represents a dashboard operator as stored in the `users` table.
// Users are provisioned out of band; the application only reads them
// while verifying credentials.
//
// Fields:
//  ID       – users.id (UUID string).
//  Name     – display name.
//  Email    – unique login email.
//  Password – bcrypt hash of the password, never the plain text.
type User struct {
    ID       string `json:"id"`    // users.id
    Name     string `json:"name"`  // users.name
    Email    string `json:"email"` // users.email
    Password string `json:"-"`     // users.password (bcrypt hash)
}
