package intent

const (
	LocaleEnglish = "en"
	LocaleItalian = "it"
	// LocaleMulti accepts English and Italian in the same conversation.
	LocaleMulti = "multi"
)

// English is the built-in English table.
func English() *PhraseTable {
	return &PhraseTable{
		Locale: LocaleEnglish,
		Phrases: map[Action][]string{
			ActionStart: {
				"start work", "start shift", "start my shift", "clock in",
				"check in", "begin work", "begin shift",
			},
			ActionEnd: {
				"end work", "end shift", "end my shift", "clock out",
				"check out", "finish work", "stop work",
			},
			ActionListTickets: {
				"my tickets", "view tickets", "list tickets",
				"show tickets", "show my tickets",
			},
			ActionCreateTicket: {
				"ticket", "new ticket", "open ticket", "create ticket",
				"send ticket", "report issue", "report a problem",
			},
		},
		NoteKeywords: []string{
			"send ticket", "new ticket", "open ticket", "create ticket", "ticket",
		},
		Rules: []KeywordRule{
			{Action: ActionStart, Patterns: []string{`\b(start|starting|begin|beginning)\b`, `\b(work|working|shift|job)\b`}},
			{Action: ActionEnd, Patterns: []string{`\b(end|ending|finish|finished|stop|stopping|done)\b`, `\b(work|working|shift|job)\b`}},
			{Action: ActionListTickets, Patterns: []string{`\b(list|show|view|see|check|my)\b`, `\btickets\b`}},
			{Action: ActionCreateTicket, Patterns: []string{`\b(new|open|create|send|file|raise|report)\b`, `\b(ticket|issue|problem)\b`}},
		},
	}
}

// Italian is the built-in Italian table.
func Italian() *PhraseTable {
	return &PhraseTable{
		Locale: LocaleItalian,
		Phrases: map[Action][]string{
			ActionStart: {
				"inizia lavoro", "inizia turno", "inizio turno", "comincia lavoro",
				"entrata", "timbra entrata",
			},
			ActionEnd: {
				"fine lavoro", "fine turno", "termina lavoro", "termina turno",
				"uscita", "timbra uscita", "finisci turno",
			},
			ActionListTickets: {
				"i miei ticket", "miei ticket", "vedi ticket", "lista ticket",
				"elenco ticket", "le mie segnalazioni", "mie segnalazioni", "vedi segnalazioni",
			},
			ActionCreateTicket: {
				"segnalazione", "nuova segnalazione", "invia segnalazione", "apri segnalazione",
				"nuovo ticket", "apri ticket", "crea ticket",
			},
		},
		NoteKeywords: []string{
			"invia segnalazione", "nuova segnalazione", "segnalazione", "nuovo ticket", "apri ticket",
		},
		Rules: []KeywordRule{
			{Action: ActionStart, Patterns: []string{`\b(inizia\w*|inizio|comincia\w*|avvia\w*|attacca\w*)\b`, `\b(lavoro|turno|servizio)\b`}},
			{Action: ActionEnd, Patterns: []string{`\b(fine|finisc\w*|termin\w*|chiud\w*|stacc\w*)\b`, `\b(lavoro|turno|servizio)\b`}},
			{Action: ActionListTickets, Patterns: []string{`\b(mostra\w*|vedi|vedere|elenc\w*|lista|miei|mie)\b`, `\b(ticket|segnalazioni)\b`}},
			{Action: ActionCreateTicket, Patterns: []string{`\b(nuov\w*|apri\w*|crea\w*|invia\w*|segnala\w*)\b`, `\b(ticket|segnalazione|problema|guasto)\b`}},
		},
	}
}

// Multi merges every built-in language, English first.
func Multi() *PhraseTable {
	return Merge(LocaleMulti, English(), Italian())
}

// BuiltinTables returns the tables shipped with the binary.
func BuiltinTables() []*PhraseTable {
	return []*PhraseTable{English(), Italian(), Multi()}
}
