package profile

import (
	"net/url"
	"slices"
	"strings"
)

// Validate checks f against the profile rules and returns the first
// violation. others are the profiles the name must not collide with.
func Validate(f Fields, others []Profile) error {
	required := []struct{ field, value string }{
		{"name", f.Name},
		{"adminAddress", f.AdminAddress},
		{"adminPrivateKey", f.AdminPrivateKey},
		{"rpcUrl", f.RPCURL},
		{"toriiUrl", f.ToriiURL},
		{"worldAddress", f.WorldAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field, "is required")
		}
	}

	for _, key := range contractOrder(f.Contracts) {
		if v := f.Contracts[key]; v != "" && !isHex(v) {
			return invalid("contracts."+key, "must start with 0x")
		}
	}

	hex := []struct{ field, value string }{
		{"adminAddress", f.AdminAddress},
		{"adminPrivateKey", f.AdminPrivateKey},
		{"worldAddress", f.WorldAddress},
	}
	for _, h := range hex {
		if !isHex(h.value) {
			return invalid(h.field, "must start with 0x")
		}
	}

	if !isAbsoluteURL(f.RPCURL) {
		return invalid("rpcUrl", "must be a valid URL")
	}
	if !isAbsoluteURL(f.ToriiURL) {
		return invalid("toriiUrl", "must be a valid URL")
	}

	for _, p := range others {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(f.Name)) {
			return invalid("name", "%q is already used by another profile", f.Name)
		}
	}
	return nil
}

// contractOrder returns the known keys present in contracts in their
// declared order, then any extra keys sorted.
func contractOrder(contracts map[string]string) []string {
	keys := make([]string, 0, len(contracts))
	for _, k := range ContractKeys {
		if _, ok := contracts[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range contracts {
		if !slices.Contains(ContractKeys, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}

func isHex(s string) bool {
	return strings.HasPrefix(s, "0x")
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
