package parser

import "github.com/Igorofyeshu4/keepgoing/internal/model"

// Default team identifiers.
const (
	TeamJulio          model.TeamID = "EQUIPE JULIO"
	TeamLeandroAdriano model.TeamID = "EQUIPE LEANDRO E ADRIANO"
)

// DefaultFieldCandidates returns the ordered column candidates observed across
// the legacy demand spreadsheets. Candidates are matched as substrings of the
// normalized header, first candidate wins; accented and unaccented spellings
// both appear because exports disagree on encoding.
func DefaultFieldCandidates() []FieldCandidates {
	return []FieldCandidates{
		{Field: FieldDate, Candidates: []string{"RESOLUCAO", "RESOLUÇÃO", "DATA", "DT_RESOLUCAO"}},
		{Field: FieldResponsible, Candidates: []string{"RESPONSAVEL", "RESPONSÁVEL", "RESP", "ATENDENTE", "ATEND"}},
		{Field: FieldStatus, Candidates: []string{"SITUACAO", "SITUAÇÃO", "STATUS", "ESTADO"}},
		{Field: FieldTeamHint, Candidates: []string{"EQUIPE"}},
		{Field: FieldChannel, Candidates: []string{"ATIVO/RECEPTIVO"}},
		{Field: FieldPriority, Candidates: []string{"PRIORIDADE"}},
		{Field: FieldNumericValue, Candidates: []string{"VALOR"}},
	}
}

// DefaultRosters returns the static team rosters. Roster order is the
// classification priority: a name present in more than one roster belongs to
// the earlier one.
func DefaultRosters() []TeamRoster {
	return []TeamRoster{
		{
			Team: TeamJulio,
			Members: []string{
				"ADRIANO", "ELISANGELA", "FELIPE", "IGOR", "ANA GESSICA",
				"ALINE", "NUNO", "THALISSON", "LUARA", "MATHEUS",
				"JULIANE", "POLIANA", "YURI", "ANA LÍDIA",
			},
		},
		{
			Team: TeamLeandroAdriano,
			Members: []string{
				"ALINE SALVADOR", "AMANDA SANTANA", "BRUNO MARIANO", "EDIANE",
				"FABIANA", "GREICY", "ITAYNNARA", "IZABEL", "JULIANA",
				"JULIA", "KATIA", "MARIA BRUNA", "MONYZA", "SABRINA",
				"SOFIA", "VICTOR ADRIANO", "VITORIA",
			},
		},
	}
}

// DefaultStatusPatterns returns the keyword table of the status taxonomy.
// The more specific "QUITADO CLIENTE" category precedes plain "QUITAD" only
// for readability; classification is non-exclusive, so order does not matter.
func DefaultStatusPatterns() []StatusPatterns {
	return []StatusPatterns{
		{Category: model.StatusResolved, Keywords: []string{"RESOLVID", "FINALIZADO", "CONCLUID"}},
		{Category: model.StatusSettledClient, Keywords: []string{"QUITADO CLIENTE"}},
		{Category: model.StatusSettled, Keywords: []string{"QUITAD"}},
		{Category: model.StatusApproved, Keywords: []string{"APROVAD"}},
		{Category: model.StatusInAnalysis, Keywords: []string{"ANALIS"}},
		{Category: model.StatusPending, Keywords: []string{"PENDENT"}},
	}
}

// DefaultChannelPatterns returns the active/inbound keyword table. Inbound is
// tested first; "RECEPTIVO" would otherwise never win against a broader
// active keyword.
func DefaultChannelPatterns() ChannelPatterns {
	return ChannelPatterns{
		Inbound: []string{"RECEPTIVO"},
		Active:  []string{"ATIVO"},
	}
}
