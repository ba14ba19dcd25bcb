package domain

import "testing"

func TestTreeLineString(t *testing.T) {
	cases := []struct {
		line TreeLine
		want string
	}{
		{TreeLine{Name: "root", Root: true, IsDir: true}, "root"},
		{TreeLine{Name: "a.txt", Depth: 0}, "│   └── a.txt"},
		{TreeLine{Name: "sub", Depth: 0, IsDir: true}, "├── sub"},
		{TreeLine{Name: "deep", Depth: 1, IsDir: true}, "│   ├── deep"},
		{TreeLine{Name: "x.go", Depth: 1}, "│   │   └── x.go"},
	}
	for _, tc := range cases {
		if got := tc.line.String(); got != tc.want {
			t.Errorf("%+v: got %q, want %q", tc.line, got, tc.want)
		}
	}
}
