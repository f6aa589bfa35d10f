package gcode

import "testing"

func TestParseLineBasic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Block
	}{
		{
			name:  "rapid move",
			input: "G0 X10 Y20",
			want:  Block{G: 0, HasG: true, X: 10, HasX: true, Y: 20, HasY: true},
		},
		{
			name:  "linear move with feed",
			input: "G1 X1.5 Y-2.25 F300",
			want:  Block{G: 1, HasG: true, X: 1.5, HasX: true, Y: -2.25, HasY: true, F: 300, HasF: true},
		},
		{
			name:  "arc with ij",
			input: "G2 X0 Y10 I-10 J0 F300",
			want:  Block{G: 2, HasG: true, X: 0, HasX: true, Y: 10, HasY: true, I: -10, HasI: true, J: 0, HasJ: true, F: 300, HasF: true},
		},
		{
			name:  "spindle on with speed",
			input: "M03 S1500",
			want:  Block{M: 3, HasM: true, S: 1500, HasS: true},
		},
		{
			name:  "dwell",
			input: "G4 P0.5",
			want:  Block{G: 4, HasG: true, P: 0.5, HasP: true},
		},
		{
			name:  "empty line",
			input: "",
			want:  Block{},
		},
		{
			name:  "unrecognized word skipped",
			input: "T1 G0 X5",
			want:  Block{G: 0, HasG: true, X: 5, HasX: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := ParseLine(tt.input)
			if status != StatusOK {
				t.Fatalf("status = %v, want OK", status)
			}
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLineInvalidNumeric(t *testing.T) {
	tests := []string{
		"G",
		"M",
		"X",
		"G01 X",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, status := ParseLine(input)
			if status != StatusInvalidParam {
				t.Errorf("ParseLine(%q) status = %v, want InvalidParam", input, status)
			}
		})
	}
}
