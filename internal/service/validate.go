package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"blog-cms/internal/domain"
	"blog-cms/internal/repository"
)

// MaxTitleLength is the longest accepted post title, in characters.
const MaxTitleLength = 100

func normalizeUser(email, login string) (string, string, error) {
	email = strings.TrimSpace(email)
	login = strings.TrimSpace(login)
	if !strings.Contains(email, "@") {
		return "", "", domain.NewValidationError("email", "Invalid email format")
	}
	if login == "" {
		return "", "", domain.NewValidationError("login", "Login cannot be empty")
	}
	return email, login, nil
}

// checkUnique fails with a ConflictError when another user already holds the
// email or login. selfID is skipped so an update may keep its own values.
func checkUnique(ctx context.Context, users repository.UserRepository, email, login string, selfID int64) error {
	taken, err := users.FindByEmail(ctx, email)
	if err := ignoreNotFound(err); err != nil {
		return err
	}
	if taken != nil && taken.ID != selfID {
		return domain.NewConflictError("email", "Email already exists")
	}

	taken, err = users.FindByLogin(ctx, login)
	if err := ignoreNotFound(err); err != nil {
		return err
	}
	if taken != nil && taken.ID != selfID {
		return domain.NewConflictError("login", "Login already exists")
	}
	return nil
}

func normalizePost(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return "", "", domain.NewValidationError("title", "Title cannot be empty")
	}
	if content == "" {
		return "", "", domain.NewValidationError("content", "Content cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", "", domain.NewValidationError("title", "Title too long")
	}
	return title, content, nil
}

func ignoreNotFound(err error) error {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}
