package helpers

import (
	"math/big"
	"strings"
	"testing"
)

func TestShortenAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0xABCDEF0000000000000000000000000000001234", "0xABCD...1234"},
		{"0x5d415f103F35387FD0Edfc3eD299eD65548De388", "0x5d41...e388"},
		{"0x1234", "0x1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ShortenAddr(tt.in); got != tt.want {
			t.Errorf("ShortenAddr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEthAddress(t *testing.T) {
	if !IsValidEthAddress("0x5d415f103F35387FD0Edfc3eD299eD65548De388") {
		t.Error("Expected checksummed address to be valid")
	}
	for _, bad := range []string{"", "0x", "5d415f103F35387FD0Edfc3eD299eD65548De388", "0xZZ415f103F35387FD0Edfc3eD299eD65548De388"} {
		if IsValidEthAddress(bad) {
			t.Errorf("Expected %q to be invalid", bad)
		}
	}
}

func TestSameAddress(t *testing.T) {
	if !SameAddress("0xabcdef0000000000000000000000000000001234", "0xABCDEF0000000000000000000000000000001234") {
		t.Error("Addresses differing only in case should match")
	}
	if SameAddress("", "") {
		t.Error("Empty addresses should never match")
	}
}

func TestFormatETH(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	if got := FormatETH(wei); got != "1.500000 ETH" {
		t.Errorf("FormatETH = %q", got)
	}
	if got := FormatETH(nil); got != "0 ETH" {
		t.Errorf("FormatETH(nil) = %q", got)
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "Entry", "Entries"); got != "1 Entry" {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := Plural(3, "Entry", "Entries"); got != "3 Entries" {
		t.Errorf("Plural(3) = %q", got)
	}
}

func TestExplorerURL(t *testing.T) {
	got := ExplorerURL("https://sepolia.etherscan.io/", "0x5d415f103F35387FD0Edfc3eD299eD65548De388")
	if got != "https://sepolia.etherscan.io/address/0x5d415f103F35387FD0Edfc3eD299eD65548De388" {
		t.Errorf("ExplorerURL = %q", got)
	}
	if ExplorerURL("", "0x01") != "" {
		t.Error("Expected no link without an explorer")
	}
}

func TestGenerateQRCode(t *testing.T) {
	qr := GenerateQRCode("https://sepolia.etherscan.io/address/0x5d415f103F35387FD0Edfc3eD299eD65548De388")
	if strings.Count(qr, "\n") < 10 {
		t.Errorf("Expected a multi-line QR code, got %d lines", strings.Count(qr, "\n"))
	}
}
