package ai

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"basic int", "$40$", 40, false},
		{"decimal rounds", "a fair price is $12.5$", 13, false},
		{"multiple envelopes", "$15$ or maybe $20$", 15, false},
		{"fallback plain number", "around 1200 for this edition", 1200, false},
		{"fallback picks longest", "a 1st printing, roughly 350", 350, false},
		{"no number", "hard to say without photos", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
		})
	}
}
