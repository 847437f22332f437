package parser

import "github.com/Igorofyeshu4/keepgoing/internal/model"

// TeamClassifier assigns a normalized responsible name to a team by roster
// membership. Rosters are tested in their configured order; the first roster
// containing the name wins. This ordering is the explicit tie-break for names
// that appear in more than one roster in the source data.
type TeamClassifier struct {
	rosters []classifierRoster
}

type classifierRoster struct {
	team    model.TeamID
	members map[string]struct{}
}

// NewTeamClassifier builds a classifier from rosters in priority order.
// Member names are normalized so roster literals compare equal to folded
// cell text.
func NewTeamClassifier(rosters []TeamRoster) *TeamClassifier {
	built := make([]classifierRoster, 0, len(rosters))
	for _, r := range rosters {
		members := make(map[string]struct{}, len(r.Members))
		for _, m := range r.Members {
			members[NormalizeText(m)] = struct{}{}
		}
		built = append(built, classifierRoster{team: r.Team, members: members})
	}
	return &TeamClassifier{rosters: built}
}

// Classify returns the team of a responsible name. The "not informed"
// sentinel (and empty input) maps to TeamNoResponsible; a name no roster
// contains maps to TeamOthers. Never returns an empty team.
func (c *TeamClassifier) Classify(responsible string) model.TeamID {
	name := NormalizeText(responsible)
	if name == "" || name == NotInformed {
		return model.TeamNoResponsible
	}
	for _, r := range c.rosters {
		if _, ok := r.members[name]; ok {
			return r.team
		}
	}
	return model.TeamOthers
}
