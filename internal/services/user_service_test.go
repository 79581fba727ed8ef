package services

import (
	"context"
	"testing"
	"time"

	"homeplanner/internal/models"
	"homeplanner/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(ctx, "alice@example.com", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID to be set")
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")) != nil {
			t.Error("expected password to be stored as a bcrypt hash")
		}
	})

	t.Run("seeds_default_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(ctx, "bob@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		var cats []models.Category
		db.Where("user_id = ?", user.ID).Order("sort_order").Find(&cats)
		if len(cats) != len(models.DefaultCategories) {
			t.Fatalf("expected %d default categories, got %d", len(models.DefaultCategories), len(cats))
		}
		for i, c := range cats {
			if !c.IsDefault {
				t.Errorf("category %q should be marked default", c.Name)
			}
			if c.Order != i+1 {
				t.Errorf("category %q: expected order %d, got %d", c.Name, i+1, c.Order)
			}
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser(ctx, "dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(ctx, "DUP@example.com", "password456", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser(ctx, "", "password123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser(ctx, "test@example.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(ctx, "  Alice@EXAMPLE.COM ", "password123", "")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUserWithEmail(t, db, "carol@example.com")

	t.Run("by_email_case_insensitive", func(t *testing.T) {
		found, err := svc.GetUserByEmail(ctx, "CAROL@example.com")
		testutil.AssertNoError(t, err)
		if found.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, found.ID)
		}
	})

	t.Run("by_id", func(t *testing.T) {
		found, err := svc.GetUserByID(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if found.Email != "carol@example.com" {
			t.Errorf("unexpected email %s", found.Email)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.GetUserByEmail(ctx, "nobody@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")

		_, err = svc.GetUserByID(ctx, "0190a6e0-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestAttemptLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success_resets_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)
		db.Model(user).Update("failed_login_attempts", 3)

		got, err := svc.AttemptLogin(ctx, user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.LastLoginAt == nil {
			t.Error("expected last login to be recorded")
		}

		var reloaded models.User
		db.First(&reloaded, "id = ?", user.ID)
		if reloaded.FailedLoginAttempts != 0 {
			t.Errorf("expected failures reset, got %d", reloaded.FailedLoginAttempts)
		}
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin(ctx, "ghost@example.com", "whatever")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < maxFailedLoginAttempts; i++ {
			_, err := svc.AttemptLogin(ctx, user.Email, "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		_, err := svc.AttemptLogin(ctx, user.Email, testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("expired_lock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)
		db.Model(user).Updates(map[string]any{
			"failed_login_attempts": maxFailedLoginAttempts,
			"locked_until":          time.Now().Add(-time.Minute),
		})

		_, err := svc.AttemptLogin(ctx, user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})
}

func TestRefreshTokenHash(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(ctx, user.ID, "abc123"))

	hash, err := svc.GetRefreshTokenHash(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected abc123, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash(ctx, "0190a6e0-0000-7000-8000-000000000000", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
