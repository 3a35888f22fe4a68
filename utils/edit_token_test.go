package utils

import "testing"

func TestEditTokenRoundTrip(t *testing.T) {
	token, err := GenerateEditToken()
	if err != nil {
		t.Fatalf("GenerateEditToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	hash, err := HashEditToken(token)
	if err != nil {
		t.Fatalf("HashEditToken: %v", err)
	}
	if !VerifyEditToken(hash, token) {
		t.Fatal("hash does not verify its own token")
	}
	if VerifyEditToken(hash, token+"x") {
		t.Fatal("wrong token accepted")
	}
	if VerifyEditToken("", token) || VerifyEditToken(hash, "") {
		t.Fatal("empty hash or token accepted")
	}
}

func TestGenerateEditTokenUnique(t *testing.T) {
	a, err := GenerateEditToken()
	if err != nil {
		t.Fatalf("GenerateEditToken: %v", err)
	}
	b, err := GenerateEditToken()
	if err != nil {
		t.Fatalf("GenerateEditToken: %v", err)
	}
	if a == b {
		t.Fatal("two generated tokens collide")
	}
}

func TestHashEditTokenRejectsEmpty(t *testing.T) {
	if _, err := HashEditToken(""); err == nil {
		t.Fatal("empty token should not hash")
	}
}
