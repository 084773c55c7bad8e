package encode

import (
	"bytes"
	"errors"
	"math/rand"
	"regexp"
	"testing"
)

// Vectores de RFC 9285 §4.3/§4.4.
func TestEncodeBase45_Vectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"AB", "BB8"},
		{"Hello!!", "%69 VD92EX0"},
		{"base-45", "UJCLQE7W581"},
		{"ietf!", "QED8WEX0"},
		{"", ""},
	}
	for _, c := range cases {
		if got := EncodeBase45([]byte(c.in)); got != c.want {
			t.Fatalf("encode %q: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeBase45_Vectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"QED8WEX0", "ietf!"},
		{"BB8", "AB"},
		{"%69 VD92EX0", "Hello!!"},
		{"", ""},
	}
	for _, c := range cases {
		got, err := DecodeBase45(c.in)
		if err != nil {
			t.Fatalf("decode %q: %v", c.in, err)
		}
		if string(got) != c.want {
			t.Fatalf("decode %q: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBase45_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(45))
	for i := 0; i < 200; i++ {
		data := make([]byte, rng.Intn(257)) // incluye largo 0 e impares
		rng.Read(data)

		enc := EncodeBase45(data)
		dec, err := DecodeBase45(enc)
		if err != nil {
			t.Fatalf("decode(encode(%d bytes)): %v", len(data), err)
		}
		if !bytes.Equal(dec, data) {
			t.Fatalf("round trip mismatch at %d bytes", len(data))
		}
	}
}

// Invariante de alfabeto: la salida solo puede contener los 45 símbolos.
func TestEncodeBase45_AlphabetInvariant(t *testing.T) {
	re := regexp.MustCompile(`^[0-9A-Z $%*+\-./:]*$`)
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 100; i++ {
		data := make([]byte, rng.Intn(512))
		rng.Read(data)
		enc := EncodeBase45(data)
		if !re.MatchString(enc) {
			t.Fatalf("output escapes alphabet: %q", enc)
		}
		if err := CheckAlphabet(enc); err != nil {
			t.Fatalf("CheckAlphabet rejected encoder output: %v", err)
		}
	}
}

func TestDecodeBase45_Invalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"length 3k+1", "BB8A"},
		{"lowercase symbol", "bb8"},
		{"symbol outside alphabet", "BB!"},
		{"chunk overflow", "ZZZ"},         // 35 + 35*45 + 35*45^2 > 0xFFFF
		{"trailing chunk overflow", "::"}, // 44 + 44*45 > 0xFF
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := DecodeBase45(c.in); !errors.Is(err, ErrInvalidBase45) {
				t.Fatalf("expected ErrInvalidBase45 for %q, got %v", c.in, err)
			}
		})
	}
}

func TestCheckAlphabet_Rejects(t *testing.T) {
	if err := CheckAlphabet("ABC#"); err == nil {
		t.Fatal("expected error for '#'")
	}
	if err := CheckAlphabet("0AZ $%*+-./:"); err != nil {
		t.Fatalf("full alphabet should pass: %v", err)
	}
}
