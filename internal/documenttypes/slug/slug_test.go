package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"accents folded", "Attestation de présence", "attestation-de-presence"},
		{"cedilla and punctuation", "Reçu d'inscription", "recu-d-inscription"},
		{"collapses separators", "Convention   --  de stage", "convention-de-stage"},
		{"digits kept", "Certificat niveau 2", "certificat-niveau-2"},
		{"trims edges", "  Émargement  ", "emargement"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Make(tc.in); got != tc.want {
				t.Fatalf("Make(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCodePrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Attestation de présence", "ADP"},
		{"Convention de stage individuelle", "CDSI"},
		{"Reçu", "R"},
		{"Bilan pédagogique et financier annuel", "BPEF"},
		{"", "DOC"},
	}

	for _, tc := range cases {
		if got := CodePrefix(tc.in); got != tc.want {
			t.Fatalf("CodePrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
