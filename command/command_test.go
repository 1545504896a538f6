package command

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Type
	}{
		{"/b", Background},
		{"/bg", Background},
		{"/fg", Foreground},
		{"/foreground", Foreground},
		{"/v", Scroll},
		{"/view", Scroll},
		{"/scroll", Scroll},
		{"/save", Save},
		{"/q", Quit},
		{"/quit", Quit},
		{"/QUIT", Quit},
		{"  /save  ", Save},
		{"/nope", Unknown},
		{"/", Unknown},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			cmd, ok := Parse(c.in)
			if !ok {
				t.Fatalf("Parse(%q) not recognized as a command", c.in)
			}
			if cmd.Type != c.want {
				t.Errorf("Parse(%q) = %v, want %v", c.in, cmd.Type, c.want)
			}
		})
	}
}

func TestParseNonCommand(t *testing.T) {
	for _, in := range []string{"hello there", "", "quit", "save /v"} {
		if _, ok := Parse(in); ok {
			t.Errorf("Parse(%q) should not be a command", in)
		}
	}
}

func TestParseArgs(t *testing.T) {
	cmd, ok := Parse("/save notes for later")
	if !ok || cmd.Type != Save {
		t.Fatalf("parse failed: %+v, %v", cmd, ok)
	}
	if len(cmd.Args) != 3 || cmd.Args[0] != "notes" {
		t.Errorf("Args = %v", cmd.Args)
	}
	if cmd.Raw != "/save notes for later" {
		t.Errorf("Raw = %q", cmd.Raw)
	}
}
