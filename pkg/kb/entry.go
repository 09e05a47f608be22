package kb

// Entry is one static knowledge-base topic. The entry set is loaded once
// at process start and shared read-only across all requests.
type Entry struct {
	Topic       string
	Keywords    []string
	Answer      string
	Suggestions []string
}

// DefaultEntries returns the curated LeadQ FAQ. Keyword sets may overlap
// across entries; declaration order decides which entry wins.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Topic:    "pricing",
			Keywords: []string{"price", "cost", "plan", "subscription", "bill"},
			Answer: "LeadQ offers three pricing tiers:\n" +
				"- **Starter**: $29/mo for basic lead scoring and email outreach.\n" +
				"- **Professional**: $99/mo for advanced analytics, CRM integration, and 3 users.\n" +
				"- **Enterprise**: Custom pricing for unlimited users and dedicated support.",
			Suggestions: []string{"View Pricing Plans", "Compare Features"},
		},
		{
			Topic:    "features",
			Keywords: []string{"feature", "do", "capability", "function"},
			Answer: "LeadQ provides a suite of sales intelligence tools:\n" +
				"- **AI Lead Scoring**: Automatically rank leads based on conversion probability.\n" +
				"- **Automated Outreach**: Personalized email sequences driven by AI.\n" +
				"- **CRM Sync**: Seamless integration with Salesforce, HubSpot, and Pipedrive.\n" +
				"- **Analytics Dashboard**: Real-time insights into your funnel performance.",
			Suggestions: []string{"Explore Features", "Request Demo"},
		},
		{
			Topic:    "support",
			Keywords: []string{"help", "support", "contact", "issue", "bug", "ticket"},
			Answer: "Our support team is available 24/7. You can:\n" +
				"- Email us at **support@leadq.ai**\n" +
				"- Submit a ticket via the **Help & Support** tab in settings.\n" +
				"- Chat with me (Veda) for immediate assistance!",
			Suggestions: []string{"Submit Ticket", "Read FAQs"},
		},
		{
			Topic:    "about",
			Keywords: []string{"leadq", "what is", "who are you", "veda"},
			Answer: "I am **Veda**, your AI Sales Assistant. LeadQ is an all-in-one sales " +
				"intelligence platform designed to help teams close more deals with less " +
				"effort using AI-driven insights.",
			Suggestions: []string{"About Us", "Our Mission"},
		},
		{
			Topic:    "integration",
			Keywords: []string{"integrate", "connect", "salesforce", "hubspot", "api"},
			Answer: "We support native integrations with major CRMs including Salesforce, " +
				"HubSpot, Zoho, and Pipedrive. You can configure these in the " +
				"**Integrations** section of your dashboard.",
			Suggestions: []string{"Integration Setup", "API Docs"},
		},
		{
			Topic:    "greeting",
			Keywords: []string{"hello", "hi", "hey"},
			Answer: "Hello! I am Veda, your AI assistant. I can help you with pricing, " +
				"features, integrations, and support. How can I assist you today?",
			Suggestions: []string{"Show Pricing", "Explain Features", "Contact Support"},
		},
	}
}
