package event

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the legacy Keccak-256 hash used throughout Ethereum.
func Keccak256(data ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// SignatureTopic returns the topic under which an event with the given
// Solidity signature is logged, i.e. the Keccak-256 hash of its canonical
// form. Parameter names and the "indexed" keyword are accepted and ignored:
//
//	SignatureTopic("Transfer(address indexed from, address indexed to, uint256 value)")
//	SignatureTopic("Transfer(address,address,uint256)")
//
// both return 0xddf252ad….
func SignatureTopic(sig string) (Hash, error) {
	canonical, err := CanonicalSignature(sig)
	if err != nil {
		return Hash{}, err
	}
	return Keccak256([]byte(canonical)), nil
}

// MustSignatureTopic is like SignatureTopic but panics on error.
func MustSignatureTopic(sig string) Hash {
	h, err := SignatureTopic(sig)
	if err != nil {
		panic(err)
	}
	return h
}

// CanonicalSignature reduces a Solidity event signature to "Name(type,type,…)".
func CanonicalSignature(sig string) (string, error) {
	sig = strings.TrimSpace(sig)

	open := strings.IndexByte(sig, '(')
	end := strings.LastIndexByte(sig, ')')
	if open < 0 || end < 0 || end <= open {
		return "", fmt.Errorf("event: malformed signature %q", sig)
	}

	name := strings.TrimSpace(sig[:open])
	if name == "" {
		return "", fmt.Errorf("event: empty name in signature %q", sig)
	}

	inner := strings.TrimSpace(sig[open+1 : end])
	if inner == "" {
		return name + "()", nil
	}

	types, err := paramTypes(inner)
	if err != nil {
		return "", fmt.Errorf("event: %w in signature %q", err, sig)
	}
	return name + "(" + types + ")", nil
}

// paramTypes reduces a parameter list to its comma separated types.
func paramTypes(list string) (string, error) {
	parts := splitParams(list)
	types := make([]string, 0, len(parts))
	for _, part := range parts {
		t, err := paramType(part)
		if err != nil {
			return "", err
		}
		types = append(types, t)
	}
	return strings.Join(types, ","), nil
}

// paramType returns the type of a single parameter, dropping the indexed
// keyword and the name. Tuple components are reduced recursively and keep
// any array suffix, as in "(uint256,address)[]".
func paramType(part string) (string, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return "", errors.New("empty parameter")
	}
	if part[0] != '(' {
		return strings.Fields(part)[0], nil
	}

	depth := 0
	for i, ch := range part {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth > 0 {
			continue
		}
		inner, err := paramTypes(part[1:i])
		if err != nil {
			return "", err
		}
		var suffix string
		if rest := part[i+1:]; strings.HasPrefix(rest, "[") {
			suffix = strings.Fields(rest)[0]
		}
		return "(" + inner + ")" + suffix, nil
	}
	return "", fmt.Errorf("unbalanced parentheses in %q", part)
}

// splitParams splits a parameter list, respecting nested tuple parentheses.
func splitParams(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
