package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://coach@localhost:5432/dailycoach?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); err != ErrNotFound {
		t.Errorf("GetConnectionString() after delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestEmptyValuesRejected(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
	if err := SetTokenSecret(""); err == nil {
		t.Error("SetTokenSecret(\"\") should return an error")
	}
}

func TestDeleteMissing(t *testing.T) {
	gokeyring.MockInit()

	if err := DeleteConnectionString(); err != ErrNotFound {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteTokenSecret(); err != ErrNotFound {
		t.Errorf("DeleteTokenSecret() error = %v, want %v", err, ErrNotFound)
	}
}

func TestTokenSecretIsSeparateEntry(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("host=db user=coach"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if _, err := GetTokenSecret(); err != ErrNotFound {
		t.Errorf("GetTokenSecret() error = %v, want %v", err, ErrNotFound)
	}

	if err := SetTokenSecret("0123456789abcdef0123456789abcdef"); err != nil {
		t.Fatalf("SetTokenSecret() failed: %v", err)
	}
	secret, err := GetTokenSecret()
	if err != nil {
		t.Fatalf("GetTokenSecret() failed: %v", err)
	}
	if secret != "0123456789abcdef0123456789abcdef" {
		t.Errorf("GetTokenSecret() = %q", secret)
	}
	if conn, _ := GetConnectionString(); conn != "host=db user=coach" {
		t.Errorf("GetConnectionString() = %q, want it untouched", conn)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with the mock keyring")
	}
}
