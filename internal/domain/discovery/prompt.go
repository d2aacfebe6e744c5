package discovery

import (
	"fmt"
	"strings"
)

const systemInstruction = "You are a live stream verifier. You ONLY return streams that are broadcasting at this exact moment. " +
	"If a stream looks offline, discard it. Prioritize accuracy of 'Live' status over everything else."

// Query is one category-scoped search handed to a Searcher.
type Query struct {
	Category          string
	Prompt            string
	SystemInstruction string
	BatchSize         int
}

// ViewerRange bounds the audience size of a candidate channel.
type ViewerRange struct {
	Min    int
	Max    int
	Target int
}

func buildQuery(category string, batch int, viewers ViewerRange) Query {
	var b strings.Builder
	fmt.Fprintf(&b, "Find %d Twitch channels for '%s' that are **LIVE RIGHT NOW**.\n\n", batch, category)
	b.WriteString("STRICT FILTERING RULES:\n")
	b.WriteString("1. **MUST BE LIVE**: Look for search snippets containing \"Live\", \"watching now\", or red dots.\n")
	b.WriteString("   - EXCLUDE channels where the snippet says \"Offline\", \"Last live\", or dates from the past.\n")
	fmt.Fprintf(&b, "2. **VIEWER COUNT**: %d to %d viewers (Target ~%d).\n", viewers.Min, viewers.Max, viewers.Target)
	b.WriteString("   - EXCLUDE big streamers (1000+ viewers).\n")
	b.WriteString("   - EXCLUDE empty streams (0-1 viewers).\n")
	b.WriteString("3. **PLATFORM**: Twitch ONLY.\n\n")
	b.WriteString("SEARCH QUERIES TO SIMULATE:\n")
	fmt.Fprintf(&b, "- site:twitch.tv \"%s\" \"watching now\"\n", category)
	fmt.Fprintf(&b, "- \"twitch %s live\" \"viewers\" -video\n\n", category)
	b.WriteString("For each streamer, extract the exact viewer count you see in the snippet. ")
	b.WriteString("If you see \"32 watching now\", put \"32\". ")
	b.WriteString("If you cannot find a number, estimate based on \"small community\" context but mark it as \"~20\".\n\n")
	fmt.Fprintf(&b, "Return JSON with %d streamers.", batch)

	return Query{
		Category:          category,
		Prompt:            b.String(),
		SystemInstruction: systemInstruction,
		BatchSize:         batch,
	}
}
