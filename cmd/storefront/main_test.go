package main

import "testing"

func TestCheckBaseURL(t *testing.T) {
	cases := []struct {
		raw     string
		strict  bool
		wantErr bool
	}{
		{raw: "http://localhost:8080/api", strict: false, wantErr: false},
		{raw: "http://localhost:8080/api", strict: true, wantErr: true},
		{raw: "https://shop.example.com/api", strict: true, wantErr: false},
		{raw: "ftp://shop.example.com", strict: false, wantErr: true},
		{raw: "", strict: false, wantErr: true},
	}
	for _, item := range cases {
		err := checkBaseURL(item.raw, item.strict)
		if (err != nil) != item.wantErr {
			t.Fatalf("check %q strict=%v want err=%v got %v", item.raw, item.strict, item.wantErr, err)
		}
	}
}
