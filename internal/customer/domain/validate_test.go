package domain

import "testing"

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "valid with punctuation", value: "529.982.247-25", want: true},
		{name: "valid bare digits", value: "52998224725", want: true},
		{name: "wrong check digit", value: "52998224724", want: false},
		{name: "repeated digits", value: "111.111.111-11", want: false},
		{name: "too short", value: "1234567890", want: false},
		{name: "letters", value: "abc.def.ghi-jk", want: false},
		{name: "empty", value: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCPF(tt.value); got != tt.want {
				t.Fatalf("ValidateCPF(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "mobile with punctuation", value: "(11) 98765-4321", want: true},
		{name: "landline", value: "1133334444", want: true},
		{name: "with country prefix", value: "+55 11 98765-4321", want: true},
		{name: "too short", value: "987654", want: false},
		{name: "too long", value: "119876543210", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePhone(tt.value); got != tt.want {
				t.Fatalf("ValidatePhone(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "maria@example.com", want: true},
		{value: "a@b.co", want: true},
		{value: "semarroba.com", want: false},
		{value: "@dominio.com", want: false},
		{value: "maria@", want: false},
		{value: "maria@semdominio", want: false},
		{value: "maria@.com", want: false},
	}
	for _, tt := range tests {
		if got := ValidateEmail(tt.value); got != tt.want {
			t.Fatalf("ValidateEmail(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
