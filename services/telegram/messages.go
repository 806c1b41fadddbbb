package telegram

const (
	welcomeMessage = "👋 Welcome to camp-tracker!\n\n" +
		"I keep an eye on academic camp admissions postings and can ping you " +
		"when new ones appear or deadlines come close.\n\n" +
		"Try /help for the command list."

	helpMessage = "📖 *Commands*\n\n" +
		"/list \\[tags] — postings, optionally filtered (all tags must match)\n" +
		"/upcoming \\[tags] — postings with a deadline in the next 30 days\n" +
		"/search <query> — search postings by name\n" +
		"/detail <name> — full record of one posting\n" +
		"/tags — every tag of the current source\n" +
		"/sources — configured data sources\n" +
		"/setdefault <source> — switch the default source\n" +
		"/update — refresh from the remote feed now\n" +
		"/sub \\[tags] — notifications about new postings and deadlines\n" +
		"/unsub — stop notifications\n" +
		"/status — your current subscription"

	noDataMessage = "No data fetched yet for this source. Run /update first."

	noResultsMessage = "No postings match."
)
