// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package importer bulk-loads the legacy CSV dump into PostgreSQL.

# Files

Files are read in dependency order:

	users.csv        id, username, email, role, bio, first_name, last_name
	category.csv     id, name, slug
	genre.csv        id, name, slug
	titles.csv       id, name, year, category[, description]
	genre_title.csv  title_id, genre_id
	review.csv       id, title_id, text, author, score, pub_date
	comments.csv     id, review_id, text, author, pub_date

Legacy user ids are numeric. Each one is replaced with a fresh UUIDv7 and
the author columns of reviews and comments are rewritten through that map.
Slugs are taken as they are and are not re-validated.
*/
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	googleuuid "github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// Table holds the rows destined for one database table.
type Table struct {
	File    string
	Name    pgx.Identifier
	Columns []string
	Rows    [][]any

	// HasIdentity marks tables whose id sequence must be advanced after load.
	HasIdentity bool
}

// Dataset is a fully parsed import, ready to copy.
type Dataset struct {
	Tables []*Table

	// Users maps legacy numeric ids to the new UUIDs.
	Users map[string]googleuuid.UUID
}

// source describes how one CSV file becomes table rows.
type source struct {
	file     string
	table    string
	columns  []string
	required []string
	identity bool
	convert  func(rec record, dataset *Dataset) ([]any, error)
}

var sources = []source{
	{
		file:  "users.csv",
		table: schema.UserAccount.Table,
		columns: []string{
			schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
			schema.UserAccount.Role, schema.UserAccount.Bio,
			schema.UserAccount.FirstName, schema.UserAccount.LastName,
		},
		required: []string{"id", "username", "email"},
		convert:  convertUser,
	},
	{
		file:     "category.csv",
		table:    schema.CoreCategory.Table,
		columns:  schema.CoreCategory.Columns(),
		required: []string{"id", "name", "slug"},
		identity: true,
		convert:  convertTerm,
	},
	{
		file:     "genre.csv",
		table:    schema.CoreGenre.Table,
		columns:  schema.CoreGenre.Columns(),
		required: []string{"id", "name", "slug"},
		identity: true,
		convert:  convertTerm,
	},
	{
		file:  "titles.csv",
		table: schema.CoreTitle.Table,
		columns: []string{
			schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year,
			schema.CoreTitle.CategoryID, schema.CoreTitle.Description,
		},
		required: []string{"id", "name", "year"},
		identity: true,
		convert:  convertTitle,
	},
	{
		file:     "genre_title.csv",
		table:    schema.CoreTitleGenre.Table,
		columns:  schema.CoreTitleGenre.Columns(),
		required: []string{"title_id", "genre_id"},
		convert:  convertTitleGenre,
	},
	{
		file:  "review.csv",
		table: schema.SocialReview.Table,
		columns: []string{
			schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
			schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate,
		},
		required: []string{"id", "title_id", "text", "author", "score", "pub_date"},
		identity: true,
		convert:  convertReview,
	},
	{
		file:  "comments.csv",
		table: schema.SocialComment.Table,
		columns: []string{
			schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
			schema.SocialComment.Text, schema.SocialComment.PubDate,
		},
		required: []string{"id", "review_id", "text", "author", "pub_date"},
		identity: true,
		convert:  convertComment,
	},
}

// # Parsing

// Parse reads every file from fsys. The first malformed row aborts parsing.
func Parse(fsys fs.FS) (*Dataset, error) {
	dataset := &Dataset{Users: map[string]googleuuid.UUID{}}

	for _, src := range sources {
		table, err := parseSource(fsys, src, dataset)
		if err != nil {
			return nil, err
		}
		dataset.Tables = append(dataset.Tables, table)
	}

	return dataset, nil
}

func parseSource(fsys fs.FS, src source, dataset *Dataset) (*Table, error) {
	file, err := fsys.Open(src.file)
	if err != nil {
		return nil, fmt.Errorf("importer: open %s: %w", src.file, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("importer: %s: read header: %w", src.file, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range src.required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("importer: %s: missing column %q", src.file, name)
		}
	}

	table := &Table{
		File:        src.file,
		Name:        identifier(src.table),
		Columns:     src.columns,
		HasIdentity: src.identity,
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: %s:%d: %w", src.file, line, err)
		}

		row, err := src.convert(record{index: index, fields: fields}, dataset)
		if err != nil {
			return nil, fmt.Errorf("importer: %s:%d: %w", src.file, line, err)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func identifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// # Row Conversion

func convertUser(rec record, dataset *Dataset) ([]any, error) {
	legacyID := rec.str("id")
	if legacyID == "" {
		return nil, errors.New("empty id")
	}
	if _, dup := dataset.Users[legacyID]; dup {
		return nil, fmt.Errorf("duplicate user id %s", legacyID)
	}

	role := sec.UserRole(rec.str("role"))
	if role == "" {
		role = sec.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	id := uuid.NewValue()
	dataset.Users[legacyID] = id

	return []any{
		id, rec.str("username"), rec.str("email"), string(role),
		rec.str("bio"), rec.str("first_name"), rec.str("last_name"),
	}, nil
}

func convertTerm(rec record, _ *Dataset) ([]any, error) {
	id, err := rec.int64("id")
	if err != nil {
		return nil, err
	}
	return []any{id, rec.str("name"), rec.str("slug")}, nil
}

func convertTitle(rec record, _ *Dataset) ([]any, error) {
	id, err := rec.int64("id")
	if err != nil {
		return nil, err
	}
	year, err := rec.int64("year")
	if err != nil {
		return nil, err
	}
	category, err := rec.optionalInt64("category")
	if err != nil {
		return nil, err
	}

	var description *string
	if text := rec.str("description"); text != "" {
		description = &text
	}

	return []any{id, rec.str("name"), year, category, description}, nil
}

func convertTitleGenre(rec record, _ *Dataset) ([]any, error) {
	titleID, err := rec.int64("title_id")
	if err != nil {
		return nil, err
	}
	genreID, err := rec.int64("genre_id")
	if err != nil {
		return nil, err
	}
	return []any{titleID, genreID}, nil
}

func convertReview(rec record, dataset *Dataset) ([]any, error) {
	id, err := rec.int64("id")
	if err != nil {
		return nil, err
	}
	titleID, err := rec.int64("title_id")
	if err != nil {
		return nil, err
	}
	author, err := rec.author(dataset)
	if err != nil {
		return nil, err
	}
	score, err := rec.int64("score")
	if err != nil {
		return nil, err
	}
	if score < 1 || score > 10 {
		return nil, fmt.Errorf("score %d out of range", score)
	}
	pubDate, err := rec.time("pub_date")
	if err != nil {
		return nil, err
	}
	return []any{id, titleID, author, rec.str("text"), score, pubDate}, nil
}

func convertComment(rec record, dataset *Dataset) ([]any, error) {
	id, err := rec.int64("id")
	if err != nil {
		return nil, err
	}
	reviewID, err := rec.int64("review_id")
	if err != nil {
		return nil, err
	}
	author, err := rec.author(dataset)
	if err != nil {
		return nil, err
	}
	pubDate, err := rec.time("pub_date")
	if err != nil {
		return nil, err
	}
	return []any{id, reviewID, author, rec.str("text"), pubDate}, nil
}

// # Record Access

type record struct {
	index  map[string]int
	fields []string
}

// str returns the trimmed field, or "" when the column is absent.
func (rec record) str(name string) string {
	i, ok := rec.index[name]
	if !ok || i >= len(rec.fields) {
		return ""
	}
	return strings.TrimSpace(rec.fields[i])
}

func (rec record) int64(name string) (int64, error) {
	value, err := strconv.ParseInt(rec.str(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return value, nil
}

func (rec record) optionalInt64(name string) (*int64, error) {
	if rec.str(name) == "" {
		return nil, nil
	}
	value, err := rec.int64(name)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (rec record) time(name string) (time.Time, error) {
	value, err := time.Parse(time.RFC3339Nano, rec.str(name))
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: %w", name, err)
	}
	return value, nil
}

func (rec record) author(dataset *Dataset) (googleuuid.UUID, error) {
	legacyID := rec.str("author")
	id, ok := dataset.Users[legacyID]
	if !ok {
		return googleuuid.UUID{}, fmt.Errorf("unknown author %q", legacyID)
	}
	return id, nil
}
