package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/campuskit/enrollment-service/internal/models"
)

func TestManager_TokenRoundTrip(t *testing.T) {
	manager := NewManager("test_secret", time.Hour)

	token, err := manager.GenerateToken("user-1", models.RoleTeacher)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Role != models.RoleTeacher {
		t.Errorf("Role = %s, want teacher", claims.Role)
	}
}

func TestManager_ValidateToken(t *testing.T) {
	manager := NewManager("test_secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		if _, err := manager.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("want ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewManager("another_secret", time.Hour)
		token, err := other.GenerateToken("user-1", models.RoleStudent)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}

		if _, err := manager.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("want ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		shortLived := NewManager("test_secret", -time.Minute)
		token, err := shortLived.GenerateToken("user-1", models.RoleStudent)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}

		if _, err := manager.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("want ErrInvalidToken, got %v", err)
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	digest, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if digest == "secret123" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !CheckPassword("secret123", digest) {
		t.Error("correct password should verify")
	}
	if CheckPassword("wrong", digest) {
		t.Error("wrong password must not verify")
	}
}
