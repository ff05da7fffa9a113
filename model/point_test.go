package model

import "testing"

func TestParsePointStatus(t *testing.T) {
	tests := map[string]struct {
		input string
		want  PointStatus
	}{
		"active":  {input: "active", want: StatusActive},
		"upper":   {input: "COMPLETE", want: StatusComplete},
		"future":  {input: "Future", want: StatusFuture},
		"guest":   {input: "guest", want: StatusGuest},
		"unknown": {input: "done", want: StatusUnknown},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ParsePointStatus(tc.input); got != tc.want {
				t.Errorf("wanted: '%s', got: '%s'", tc.want, got)
			}
		})
	}
}

func TestPointStatusInactive(t *testing.T) {
	if StatusActive.Inactive() {
		t.Errorf("ACTIVE should not be inactive")
	}
	for _, s := range []PointStatus{StatusFuture, StatusComplete, StatusGuest} {
		if !s.Inactive() {
			t.Errorf("%s should be inactive", s)
		}
	}
}

func TestPointStatusAccessors(t *testing.T) {
	p := &Point{TeamOneStatus: StatusActive, TeamTwoStatus: StatusFuture}

	if got := p.Status(TeamOne); got != StatusActive {
		t.Errorf("team one status: wanted ACTIVE, got '%s'", got)
	}
	if got := p.Status(TeamTwo); got != StatusFuture {
		t.Errorf("team two status: wanted FUTURE, got '%s'", got)
	}

	p.SetStatus(TeamTwo, StatusActive)
	if got := p.Status(TeamTwo); got != StatusActive {
		t.Errorf("team two status after set: wanted ACTIVE, got '%s'", got)
	}
}

func TestTeamSideOther(t *testing.T) {
	if got := TeamOne.Other(); got != TeamTwo {
		t.Errorf("wanted two, got '%s'", got)
	}
	if got := TeamTwo.Other(); got != TeamOne {
		t.Errorf("wanted one, got '%s'", got)
	}
	if got := TeamUnknown.Other(); got != TeamUnknown {
		t.Errorf("wanted unknown, got '%s'", got)
	}
}

func TestParseTeamSide(t *testing.T) {
	tests := map[string]struct {
		input string
		want  TeamSide
	}{
		"one":      {input: "one", want: TeamOne},
		"digit":    {input: "2", want: TeamTwo},
		"teamOne":  {input: "teamOne", want: TeamOne},
		"team_two": {input: "team_two", want: TeamTwo},
		"bad":      {input: "three", want: TeamUnknown},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ParseTeamSide(tc.input); got != tc.want {
				t.Errorf("wanted: '%s', got: '%s'", tc.want, got)
			}
		})
	}
}
