package model

import "time"

// Roles carried in the users.role column and the JWT role claim.
const (
    RoleCustomer = "customer"
    RoleAdmin    = "admin"
)

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the server; handlers build their own
// response shapes.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  Phone        – contact number, may be empty.
//  PasswordHash – bcrypt hashed password.
//  Role         – customer or admin.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.user_id
    Name         string    // users.name
    Email        string    // users.email
    Phone        string    // users.phone
    PasswordHash string    // users.password
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
}
