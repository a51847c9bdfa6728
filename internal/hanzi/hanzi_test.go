package hanzi

import "testing"

func TestNormalizeKeepsOnlyIdeographs(t *testing.T) {
	cases := map[string]string{
		"你好":       "你好",
		"你好！！":     "你好",
		"123":      "",
		"  永 yong": "永",
		"a水b火c":    "水火",
		"":         "",
		"〇ㄅ":       "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCountAndChars(t *testing.T) {
	text := "学习, 学习!"
	if got := Count(text); got != 4 {
		t.Fatalf("expected 4 ideographs, got %d", got)
	}
	chars := Chars(text)
	if len(chars) != 4 || chars[0] != "学" || chars[3] != "习" {
		t.Fatalf("unexpected chars: %v", chars)
	}
	unique := Unique(chars)
	if len(unique) != 2 || unique[0] != "学" || unique[1] != "习" {
		t.Fatalf("unexpected unique chars: %v", unique)
	}
}

func TestIsHanziBounds(t *testing.T) {
	if !IsHanzi(First) || !IsHanzi(Last) {
		t.Fatalf("expected range bounds to be ideographs")
	}
	if IsHanzi(First-1) || IsHanzi(Last+1) {
		t.Fatalf("expected runes outside the range to be rejected")
	}
}
