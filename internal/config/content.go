// internal/config/content.go

package config

// defaultTemplates returns the built-in category -> template pool mapping.
// Templates use {keyword} and {context} placeholders; both are required.
func defaultTemplates() map[string][]string {
	return map[string][]string{
		"trending": {
			"🔥 What's hot in Kenya: '{keyword}' is trending! {context} #TrendingKenya",
			"📈 Kenyans can't stop talking about '{keyword}' - {context} #KOT #Kenya",
			"⚡ Breaking trend: '{keyword}' is taking over Kenya! {context} #Viral",
			"🇰🇪 Trending now: '{keyword}' - here's what Kenyans are saying {context}",
		},
		"educational": {
			"📚 Trend explained: Why '{keyword}' is popular in Kenya {context} #Education",
			"💡 Understanding '{keyword}': {context} #LearnSomethingNew #Kenya",
			"🎓 Kenyan trend spotlight: '{keyword}' - {context} #KnowledgeIsWealth",
			"📖 Deep dive: '{keyword}' and its impact in Kenya {context}",
		},
		"engagement": {
			"🤔 What's your take on '{keyword}' trending in Kenya? {context} #KenyaDebate",
			"📊 Quick poll: How do you feel about '{keyword}'? {context} #KenyaOpinion",
			"💬 Let's discuss '{keyword}' - what are your thoughts, KOT? {context}",
			"🗣️ Kenya speaks: Share your opinion on '{keyword}' {context} #Discussion",
		},
		"news": {
			"📰 News update: '{keyword}' making headlines in Kenya {context} #KenyaNews",
			"🚨 Alert: '{keyword}' - here's what Kenyans need to know {context}",
			"📢 Update on '{keyword}': {context} #NewsUpdate #Kenya",
			"⚠️ Important: '{keyword}' trending - stay informed {context}",
		},
	}
}

// defaultHashtags returns the built-in hashtag pool for composed posts.
func defaultHashtags() []string {
	return []string{
		"#Kenya", "#Nairobi", "#KenyaTrends", "#KOT",
		"#TukoTogether", "#KenyaDaily", "#EastAfrica",
		"#Kenyan", "#NairobiLife", "#KenyaNews",
		"#Mombasa", "#Kisumu", "#Eldoret", "#KenyaFirst",
	}
}
