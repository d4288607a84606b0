// Package schema defines request payloads for books and reviews and turns raw
// input into validated values or a *ValidationError naming each bad field.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	MinRating = 1
	MaxRating = 5

	// Column widths of books.title and books.author.
	MaxTitleLength  = 512
	MaxAuthorLength = 256
)

// bookRequest and reviewRequest use pointers so a missing field can be told apart from a zero value.
type bookRequest struct {
	Title           *string `json:"title" binding:"required,notblank,max=512"`
	Author          *string `json:"author" binding:"required,notblank,max=256"`
	PublicationYear *int    `json:"publication_year" binding:"required"`
}

type reviewRequest struct {
	Text   *string `json:"text" binding:"required,notblank"`
	Rating *int    `json:"rating" binding:"required,min=1,max=5"`
}

// BookInput is a validated book creation payload.
type BookInput struct {
	Title           string
	Author          string
	PublicationYear int
}

// ReviewInput is a validated review creation payload.
type ReviewInput struct {
	Text   string
	Rating int
}

// BookFilter holds the optional book listing constraints.
type BookFilter struct {
	Author          *string
	PublicationYear *int
}

var setupOnce sync.Once

// setupValidator teaches gin's validator engine our tag names and the notblank rule.
func setupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// ParseBook decodes and validates a book creation body.
func ParseBook(body []byte) (BookInput, error) {
	var req bookRequest
	if err := bind(body, &req); err != nil {
		return BookInput{}, err
	}
	return BookInput{
		Title:           *req.Title,
		Author:          *req.Author,
		PublicationYear: *req.PublicationYear,
	}, nil
}

// ParseReview decodes and validates a review creation body.
func ParseReview(body []byte) (ReviewInput, error) {
	var req reviewRequest
	if err := bind(body, &req); err != nil {
		return ReviewInput{}, err
	}
	return ReviewInput{
		Text:   *req.Text,
		Rating: *req.Rating,
	}, nil
}

// ParseBookFilter reads author and publication_year from a query string.
// An empty author is treated as absent.
func ParseBookFilter(query url.Values) (BookFilter, error) {
	var filter BookFilter
	if author := query.Get("author"); author != "" {
		filter.Author = &author
	}
	if raw := strings.TrimSpace(query.Get("publication_year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return BookFilter{}, fieldError("publication_year", ReasonWrongType, "must be an integer")
		}
		filter.PublicationYear = &year
	}
	return filter, nil
}

// ErrUnknownBookID is returned for a well-formed book_id too large to name any stored book.
var ErrUnknownBookID = errors.New("book id out of range")

// ParseBookID parses a book_id path segment.
func ParseBookID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrUnknownBookID
	}
	if err != nil {
		return 0, fieldError("book_id", ReasonWrongType, "must be a non-negative integer")
	}
	// Row ids are signed 64-bit in both SQLite and Postgres.
	if id > math.MaxInt64 || uint64(uint(id)) != id {
		return 0, ErrUnknownBookID
	}
	return uint(id), nil
}

// bind decodes each field on its own so one wrong-typed field does not hide the
// others, then runs gin's validator over whatever decoded.
func bind(body []byte, obj any) error {
	setupValidator()
	if len(bytes.TrimSpace(body)) == 0 {
		return fieldError("body", ReasonMissing, "request body is required")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return translate(err)
	}
	if raw == nil {
		return fieldError("body", ReasonMalformed, "request body must be a JSON object")
	}

	out := &ValidationError{}
	mistyped := make(map[string]bool)

	v := reflect.ValueOf(obj).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := jsonName(t.Field(i))
		value, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, v.Field(i).Addr().Interface()); err != nil {
			mistyped[name] = true
			out.Fields = append(out.Fields, FieldError{
				Field:   name,
				Reason:  ReasonWrongType,
				Message: fmt.Sprintf("must be of type %s", jsonKind(t.Field(i).Type)),
			})
		}
	}

	if err := binding.Validator.ValidateStruct(obj); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fieldError("body", ReasonInvalid, err.Error())
		}
		for _, fe := range verrs {
			if mistyped[fe.Field()] {
				continue
			}
			out.Fields = append(out.Fields, describe(fe))
		}
	}

	if len(out.Fields) > 0 {
		return out
	}
	return nil
}

// translate maps a top-level decode failure to a body error.
func translate(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fieldError("body", ReasonMalformed, "request body must be a JSON object")
	}
	return fieldError("body", ReasonMalformed, "request body is not valid JSON")
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		return fld.Name
	}
	return name
}

func describe(fe validator.FieldError) FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return FieldError{Field: field, Reason: ReasonMissing, Message: "field required"}
	case "notblank":
		return FieldError{Field: field, Reason: ReasonEmpty, Message: "must not be empty"}
	case "min", "max":
		if fe.Kind() == reflect.String {
			return FieldError{
				Field:   field,
				Reason:  ReasonOutOfRange,
				Message: fmt.Sprintf("must be at most %s characters", fe.Param()),
			}
		}
		return FieldError{
			Field:   field,
			Reason:  ReasonOutOfRange,
			Message: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
		}
	default:
		return FieldError{Field: field, Reason: ReasonInvalid, Message: fmt.Sprintf("failed %q check", fe.Tag())}
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.String:
		return "string"
	case reflect.Ptr:
		return jsonKind(t.Elem())
	default:
		return t.Kind().String()
	}
}
