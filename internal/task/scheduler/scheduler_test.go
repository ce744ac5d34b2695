package scheduler

import "testing"

func TestBuildDailySpec(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "03:00", want: "0 3 * * *"},
		{in: "23:59", want: "59 23 * * *"},
		{in: "0:5", want: "5 0 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		spec, err := buildDailySpec(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("buildDailySpec(%q) accepted invalid input", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("buildDailySpec(%q): %v", tc.in, err)
			continue
		}
		if spec != tc.want {
			t.Errorf("buildDailySpec(%q) = %q, want %q", tc.in, spec, tc.want)
		}
	}
}
