package advisor

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

type keywordAnswer struct {
	keywords []string
	answer   string
}

// Checked in order; the first hit wins.
var keywordAnswers = []keywordAnswer{
	{
		keywords: []string{"nmbu"},
		answer:   "NMBU (Norges miljø- og biovitenskapelige universitet) er Norges universitet for livsvitenskapene. NMBU tilbyr utdanning og forskning innen blant annet miljø, biovitenskap, veterinærmedisin og realfag.",
	},
	{
		keywords: []string{"permisjon"},
		answer:   "For å søke om permisjon fra studiet må du sende en søknad til studieavdelingen. Du kan kontakte dem på studieveiledning@nmbu.no for mer informasjon om prosessen.",
	},
	{
		keywords: []string{"semesterregistrering", "frist"},
		answer:   "Fristen for semesterregistrering er vanligvis i midten av august for høstsemesteret og midten av januar for vårsemesteret. Sjekk StudentWeb for eksakte datoer.",
	},
	{
		keywords: []string{"timeplan"},
		answer:   "Du finner timeplanen din i TimeEdit. Gå til nmbu.no og søk etter 'TimeEdit', eller logg inn via StudentWeb.",
	},
	{
		keywords: []string{"bacheloroppgave"},
		answer:   "Kravene til bacheloroppgaven varierer etter studieprogram. Ta kontakt med studieveilederen din eller sjekk nettsidene til studieprogrammet for spesifikke krav og retningslinjer.",
	},
}

// KeywordResponder gives canned answers to common questions.
type KeywordResponder struct{}

func (KeywordResponder) Answer(_ context.Context, query string) (string, error) {
	folded := cases.Fold().String(query)
	for _, ka := range keywordAnswers {
		for _, kw := range ka.keywords {
			if strings.Contains(folded, kw) {
				return ka.answer, nil
			}
		}
	}
	return fmt.Sprintf("Takk for spørsmålet ditt om '%s'. Dette er en demo-veileder under utvikling. For detaljert informasjon, kontakt studieavdelingen på studieveiledning@nmbu.no eller besøk nmbu.no.", query), nil
}
