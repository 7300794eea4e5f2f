// Package main starts the library management service. It serves a JSON API
// built on fiber and gorm where librarians curate the catalog and activate
// student accounts, students borrow and return books, and every request is
// checked against a table of role grants. Overdue lists are recomputed from
// the checkout ledger before each request.
package main
