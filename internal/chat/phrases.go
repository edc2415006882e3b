package chat

// Phrases are the fixed strings shown around a conversation.
type Phrases struct {
	Title       string   `json:"title"`
	Placeholder string   `json:"placeholder"`
	EmptyChat   string   `json:"empty_chat"`
	Examples    string   `json:"examples"`
	ExampleList []string `json:"example_list"`
	You         string   `json:"you"`
	Assistant   string   `json:"assistant"`
	Thinking    string   `json:"thinking"`
	Footer      string   `json:"footer"`

	systemPrompt  string
	fallbackToast string
}

var phrases = map[Lang]Phrases{
	English: {
		Title:       "Nutrition Assistant",
		Placeholder: "Ask me anything about food or your grocery list...",
		EmptyChat:   "Hi there! I'm your friendly nutrition assistant. How can I help you today?",
		Examples:    "Here are some things you can ask me:",
		ExampleList: []string{
			"What nutrients are in an apple?",
			"Can you tell me about chicken breast?",
			"What's on my grocery list?",
			"Is dark chocolate healthier than milk chocolate?",
		},
		You:       "You",
		Assistant: "Nutrition Buddy",
		Thinking:  "Thinking about that...",
		Footer:    "Your Personal Nutrition Assistant",

		systemPrompt:  "You are a nutrition expert assistant. Provide information about calories and nutritional content of food items. Be concise and helpful.",
		fallbackToast: "Using local nutrition database. API connection failed.",
	},
	Nepali: {
		Title:       "पोषण सहायक",
		Placeholder: "खाना वा तपाईंको किराना सूचीको बारेमा केही सोध्नुहोस्...",
		EmptyChat:   "नमस्ते! म तपाईंको मैत्रीपूर्ण पोषण सहायक हुँ। आज म तपाईंलाई कसरी मद्दत गर्न सक्छु?",
		Examples:    "यहाँ केही कुराहरू छन् जुन तपाईं मलाई सोध्न सक्नुहुन्छ:",
		ExampleList: []string{
			"स्याउमा के-के पोषक तत्वहरू छन्?",
			"के तपाईं मलाई कुखुराको छातीको बारेमा बताउन सक्नुहुन्छ?",
			"मेरो किराना सूचीमा के छ?",
			"के कालो चकलेट दूध चकलेट भन्दा स्वस्थ छ?",
		},
		You:       "तपाईं",
		Assistant: "पोषण साथी",
		Thinking:  "त्यसबारे सोच्दै...",
		Footer:    "तपाईंको व्यक्तिगत पोषण सहायक",

		systemPrompt:  "तपाईं एक पोषण विशेषज्ञ सहायक हुनुहुन्छ। खाना वस्तुहरूको क्यालोरी र पौष्टिक सामग्रीको बारेमा जानकारी प्रदान गर्नुहोस्। संक्षिप्त र सहयोगी हुनुहोस्।",
		fallbackToast: "स्थानीय पोषण डाटाबेस प्रयोग गर्दै। API जडान असफल भयो।",
	},
}

// PhrasesFor returns the strings for lang, falling back to English.
func PhrasesFor(lang Lang) Phrases {
	if p, ok := phrases[lang]; ok {
		return p
	}
	return phrases[English]
}
