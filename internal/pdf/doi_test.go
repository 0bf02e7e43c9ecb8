package pdf

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain",
			text: "This article: 10.1016/j.cie.2023.109088 is cited widely.",
			want: "10.1016/j.cie.2023.109088",
		},
		{
			name: "trailing punctuation stripped",
			text: "See https://doi.org/10.1080/00224065.2022.2139821.",
			want: "10.1080/00224065.2022.2139821",
		},
		{
			name: "first of several",
			text: "10.1000/first then 10.1000/second",
			want: "10.1000/first",
		},
		{
			name: "none",
			text: "No identifier in this text at all.",
			want: "",
		},
		{
			name: "bare prefix rejected",
			text: "Malformed 10.1234/ fragment only.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1016/j.cie.2023.109088", true},
		{"10.1000/182", true},
		{"10.1234/", false},
		{"11.1234/abc", false},
		{"10.12/ab", false},
	}

	for _, tt := range tests {
		if got := isValidDOI(tt.doi); got != tt.want {
			t.Errorf("isValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}
