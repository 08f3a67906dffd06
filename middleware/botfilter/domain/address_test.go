package domain

import "testing"

func TestValidAddress_AcceptsWellFormedIPv4(t *testing.T) {
	for _, ip := range []string{"1.2.3.4", "0.0.0.0", "255.255.255.255", "192.168.0.1"} {
		if !ValidAddress(ip) {
			t.Fatalf("expected %q to be valid", ip)
		}
	}
}

func TestValidAddress_RejectsMalformedIPv4(t *testing.T) {
	for _, ip := range []string{"", "1.2.3", "1.2.3.4.5", "256.1.1.1", "1.2.3.999", "a.b.c.d", "1.2.3.", "1..2.3"} {
		if ValidAddress(ip) {
			t.Fatalf("expected %q to be invalid", ip)
		}
	}
}

func TestValidAddress_AcceptsIPv6Shapes(t *testing.T) {
	for _, ip := range []string{"::1", "2001:db8::1", "fe80::abcd:1234", "2001:0DB8:0:0:0:0:0:1"} {
		if !ValidAddress(ip) {
			t.Fatalf("expected %q to be valid", ip)
		}
	}
}

func TestValidAddress_RejectsNonHexIPv6(t *testing.T) {
	for _, ip := range []string{"g::1", "2001:db8::zz", "1.2.3.4:8080", "::1%eth0", "fe80::1 "} {
		if ValidAddress(ip) {
			t.Fatalf("expected %q to be invalid", ip)
		}
	}
}
