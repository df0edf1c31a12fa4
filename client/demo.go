package client

// Canned fallback content served in demo mode when the backend's AI
// pipeline is unreachable. The wording matches what the dashboard shows
// so demos degrade gracefully instead of erroring.

func fallbackProfileSummary() *ProfileSummary {
	return &ProfileSummary{
		Summary: "AI profile summary is currently unavailable. The account overview " +
			"below is assembled from the customer's stored metrics and recent activity.",
		Risks:         []string{"AI-generated risk analysis unavailable - review recent meetings and NPS manually"},
		Opportunities: []string{"AI-generated opportunity analysis unavailable - review product usage trends manually"},
		TalkTracks:    []string{"Ask about current priorities and upcoming renewal plans"},
	}
}

var demoSimilarCustomers = []SimilarCustomer{
	{CustomerID: 101, Name: "Northwind Analytics", Industry: "technology", Score: 0.91, SharedTraits: []string{"industry", "seat count"}},
	{CustomerID: 102, Name: "Fabrikam Health", Industry: "healthcare", Score: 0.84, SharedTraits: []string{"ARR band"}},
	{CustomerID: 103, Name: "Contoso Retail", Industry: "retail", Score: 0.78, SharedTraits: []string{"product mix"}},
	{CustomerID: 104, Name: "Adventure Works", Industry: "manufacturing", Score: 0.71, SharedTraits: []string{"renewal window"}},
	{CustomerID: 105, Name: "Tailspin Logistics", Industry: "logistics", Score: 0.66, SharedTraits: []string{"usage trend"}},
}

func fallbackSimilarCustomers(topK int) []SimilarCustomer {
	if topK > len(demoSimilarCustomers) {
		topK = len(demoSimilarCustomers)
	}
	out := make([]SimilarCustomer, topK)
	copy(out, demoSimilarCustomers[:topK])
	return out
}
