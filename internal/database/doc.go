// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup (SQLite or Postgres) and migrations
//	└── catalog/         # Book and review persistence
//
// # Usage
//
//	db, err := database.NewDatabase(cfg.Database)
//	repo := catalog.NewRepository(db.DB)
//
//	book, err := repo.CreateBook(ctx, "Dune", "Frank Herbert", 1965)
//	review, err := repo.CreateReview(ctx, book.ID, "Great", 5)
//
// SQLite connections are opened with foreign keys enabled, so the
// reviews.book_id reference is enforced by the database as well as by the
// repository's own existence check.
package database
