package domain

import "strings"

// ValidAddress informa se s tem forma aceitável de IPv4 ou IPv6 para servir
// de chave de armazenamento.
//
// IPv4: quatro octetos decimais 0..255 separados por ponto.
// IPv6: presença de ':' com apenas dígitos hexadecimais e ':'.
//
// A checagem de IPv6 é de forma, não de validade estrita. O valor vem de um
// header controlado pela borda e só precisa ser seguro como chave.
func ValidAddress(s string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(s, ":") {
		return validIPv6(s)
	}
	return validIPv4(s)
}

func validIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return false
		}
		n := 0
		for _, c := range p {
			if c < '0' || c > '9' {
				return false
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

func validIPv6(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		case c == ':':
		default:
			return false
		}
	}
	return true
}
