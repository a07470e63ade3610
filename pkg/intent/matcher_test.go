package intent

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClassifyEnglish(t *testing.T) {
	m := MustNew(English(), DefaultConfig())

	tests := []struct {
		name string
		in   string
		want Result
	}{
		{"exact start", "start work", Match(ActionStart, "")},
		{"typo start", "STRT WRK", Match(ActionStart, "")},
		{"hyphenated clock in", "Clock-In!", Match(ActionStart, "")},
		{"exact end", "clock out", Match(ActionEnd, "")},
		{"check out", "check out", Match(ActionEnd, "")},
		{"stop work is not start", "stop work", Match(ActionEnd, "")},
		{"view tickets", "view tickets", Match(ActionListTickets, "")},
		{"plural beats singular", "tickets", Match(ActionListTickets, "")},
		{"bare ticket", "Ticket", Match(ActionCreateTicket, "")},
		{"typo ticket", "tiket", Match(ActionCreateTicket, "")},
		{"keyword with dangling separator", "ticket -", Match(ActionCreateTicket, "")},
		{"keyword with punctuation only", "ticket: ?!", Match(ActionCreateTicket, "")},
		{"ticket with trailing blanks", "ticket    ", Match(ActionCreateTicket, "")},
		{"list inside sentence", "my tickets please", Match(ActionListTickets, "")},
		{"inline note", "ticket the printer on 2nd floor is jammed", Match(ActionCreateTicket, "the printer on 2nd floor is jammed")},
		{"colon note", "Ticket: printer jammed", Match(ActionCreateTicket, "printer jammed")},
		{"dash note", "new ticket - broken chair", Match(ActionCreateTicket, "broken chair")},
		{"report issue note", "report issue the printer is jammed", Match(ActionCreateTicket, "the printer is jammed")},
		{"report a problem note", "Report a problem: no hot water", Match(ActionCreateTicket, "no hot water")},
		{"rule start", "please could you start my work now", Match(ActionStart, "")},
		{"rule end", "work done", Match(ActionEnd, "")},
		{"rule end finish", "finish shift", Match(ActionEnd, "")},
		{"unrelated", "xyz123", NoMatch()},
		{"empty", "", NoMatch()},
		{"punctuation only", "?!...", NoMatch()},
		{"invalid utf8", "\xff\xfe\xfd", NoMatch()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Classify(tt.in))
		})
	}
}

func TestClassifyItalianAndMulti(t *testing.T) {
	it := MustNew(Italian(), DefaultConfig())
	multi := MustNew(Multi(), DefaultConfig())

	tests := []struct {
		name string
		in   string
		want Result
	}{
		{"start", "inizia lavoro", Match(ActionStart, "")},
		{"start typo", "inizia lavro", Match(ActionStart, "")},
		{"end", "timbra uscita", Match(ActionEnd, "")},
		{"end punctuation", "Fine turno!", Match(ActionEnd, "")},
		{"list", "i miei ticket", Match(ActionListTickets, "")},
		{"list plural", "segnalazioni", Match(ActionListTickets, "")},
		{"create", "segnalazione", Match(ActionCreateTicket, "")},
		{"note", "segnalazione la stampante è rotta", Match(ActionCreateTicket, "la stampante è rotta")},
		{"crea ticket note", "crea ticket la stampante è rotta", Match(ActionCreateTicket, "la stampante è rotta")},
		{"apri segnalazione note", "apri segnalazione: porta bloccata", Match(ActionCreateTicket, "porta bloccata")},
		{"keyword with dangling separator", "segnalazione -", Match(ActionCreateTicket, "")},
		{"unrelated", "xyz123", NoMatch()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, it.Classify(tt.in), "it")
			assert.Equal(t, tt.want, multi.Classify(tt.in), "multi")
		})
	}

	assert.Equal(t, Match(ActionStart, ""), multi.Classify("start work"))
	assert.Equal(t, Match(ActionCreateTicket, "printer jammed"), multi.Classify("ticket: printer jammed"))
}

func TestClassifyNoteBeatsFuzzy(t *testing.T) {
	m := MustNew(English(), DefaultConfig())

	// "ticket list" is close to list phrases but the keyword prefix wins.
	got := m.Classify("ticket list")
	assert.Equal(t, Match(ActionCreateTicket, "list"), got)
}

func TestClassifyRespectsConfig(t *testing.T) {
	strict := DefaultConfig()
	strict.SimilarityThreshold = 0.81

	m := MustNew(English(), strict)
	assert.Equal(t, NoMatch(), m.Classify("STRT WRK"))
	assert.Equal(t, strict, m.Config())
	assert.Equal(t, LocaleEnglish, m.Locale())
}

func TestClassifyDeterministic(t *testing.T) {
	inputs := []string{"start work", "STRT WRK", "ticket the sink leaks", "view tickets", "xyz123", "", "fine turno"}
	for i := 0; i < 5; i++ {
		a := MustNew(Multi(), DefaultConfig())
		b := MustNew(Multi(), DefaultConfig())
		for _, in := range inputs {
			assert.Equal(t, a.Classify(in), b.Classify(in), "input %q", in)
		}
	}
}

func TestClassifyConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := MustNew(Multi(), DefaultConfig())
	inputs := []string{"start work", "STRT WRK", "ticket: door broken", "view tickets", "timbra uscita", "xyz123", ""}
	want := make([]Result, len(inputs))
	for i, in := range inputs {
		want[i] = m.Classify(in)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				for i, in := range inputs {
					if got := m.Classify(in); got != want[i] {
						select {
						case errs <- in:
						default:
						}
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for in := range errs {
		t.Errorf("concurrent classification of %q diverged", in)
	}
}

func TestResultJSON(t *testing.T) {
	data, err := json.Marshal(NoMatch())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"noMatch"}`, string(data))

	data, err = json.Marshal(Match(ActionCreateTicket, "sink leaks"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"match","action":"createTicket","note":"sink leaks"}`, string(data))

	assert.False(t, NoMatch().Matched())
	assert.True(t, Match(ActionStart, "").Matched())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(English(), Config{SimilarityThreshold: 2})
	assert.Error(t, err)

	table := English()
	table.Rules = append(table.Rules, KeywordRule{Action: ActionStart, Patterns: []string{`(unclosed`}})
	_, err = New(table, DefaultConfig())
	assert.ErrorContains(t, err, "rule")

	assert.Panics(t, func() {
		MustNew(&PhraseTable{Locale: "x", Phrases: map[Action][]string{"dance": {"dance"}}}, DefaultConfig())
	})
}

func TestMatcherCreatePhrasesAreNoteKeywords(t *testing.T) {
	m := MustNew(&PhraseTable{
		Locale:  "tiny",
		Phrases: map[Action][]string{ActionCreateTicket: {"ticket", "log fault"}},
	}, DefaultConfig())

	tests := []struct {
		name string
		in   string
		want Result
	}{
		{"single word", "ticket the sink leaks", Match(ActionCreateTicket, "the sink leaks")},
		{"two words", "log fault: lift stuck", Match(ActionCreateTicket, "lift stuck")},
		{"bare phrase", "log fault", Match(ActionCreateTicket, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Classify(tt.in))
		})
	}
}

func TestNoteKeywordsIncludeCreatePhrases(t *testing.T) {
	for _, table := range BuiltinTables() {
		t.Run(table.Locale, func(t *testing.T) {
			keywords := noteKeywords(table)
			for _, phrase := range table.Phrases[ActionCreateTicket] {
				assert.Contains(t, keywords, phrase)
			}
			assert.Len(t, keywords, len(appendUnique(nil, keywords...)), "no duplicates")
		})
	}
}
