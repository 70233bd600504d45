package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := GetPwd("hunter22")
	if err != nil {
		t.Fatalf("GetPwd: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPwd("hunter22", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPwd("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}
