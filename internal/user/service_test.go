package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegister_HashesPlaintextPassword(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), User{Email: "a@example.com", WhatsAppNumber: "0711111111", Password: "secret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected first id to be 1, got %d", created.ID)
	}
	if created.Password == "secret" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegister_KeepsExistingHash(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc := NewService(NewInMemoryRepository(nil))

	created, err := svc.Register(context.Background(), User{Email: "a@example.com", Password: string(hashed)})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Password != string(hashed) {
		t.Fatalf("expected hash to be stored unchanged")
	}
}

func TestRegister_AllowsDuplicateEmails(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Register(ctx, User{Email: "same@example.com", Password: "pw"}); err != nil {
			t.Fatalf("register %d failed: %v", i, err)
		}
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestInMemoryRepository_SeedAndCancelledContext(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 7, Email: "seed@example.com"}})

	created, err := repo.Create(context.Background(), User{Email: "next@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 8 {
		t.Fatalf("expected id after seed max to be 8, got %d", created.ID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestImportRecord_ToUser(t *testing.T) {
	input := `[
		{"email":"a@example.com","whatsappNumber":"0711111111","dob":"1990-04-02","password":"pw"},
		{"email":"not-an-email","whatsappNumber":"0711111111","dob":"1990-04-02","password":"pw"},
		{"email":"c@example.com","whatsappNumber":"","dob":"1990-04-02","password":"pw"},
		{"email":"d@example.com","whatsappNumber":"0711111111","dob":"02/04/1990","password":"pw"}
	]`

	records, err := DecodeImport(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	u, err := records[0].ToUser()
	if err != nil {
		t.Fatalf("expected first record to be valid: %v", err)
	}
	if u.DOB.Year() != 1990 || u.DOB.Month() != 4 || u.DOB.Day() != 2 {
		t.Fatalf("unexpected dob %v", u.DOB)
	}

	for i, rec := range records[1:] {
		if _, err := rec.ToUser(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("record %d: expected ErrInvalidInput, got %v", i+1, err)
		}
	}
}

func TestDecodeImport_Malformed(t *testing.T) {
	if _, err := DecodeImport(strings.NewReader(`{"email":`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
