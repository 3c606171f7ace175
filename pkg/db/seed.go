package db

import (
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
)

type seedFact struct {
	id       string
	category string
	prompt   string
	answer   string
	keywords []string
	tip      string
}

// SeedCorpus loads the starter fact set when the corpus table is empty.
// Re-running against a populated table is a no-op.
func SeedCorpus() error {
	var count int64
	if err := DB.Model(&CorpusItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, fact := range starterFacts {
		item := CorpusItem{
			ID:              fact.id,
			Category:        fact.category,
			Prompt:          fact.prompt,
			CanonicalAnswer: fact.answer,
			Tip:             fact.tip,
		}
		if err := item.SetKeywords(fact.keywords); err != nil {
			return err
		}
		if err := DB.Create(&item).Error; err != nil {
			return err
		}
	}
	logger.Info("seeded starter corpus", "items", len(starterFacts))
	return nil
}

var starterFacts = []seedFact{
	// Dates: prompt names the event, the answer is the year.
	{
		id: "date-lublin", category: "date",
		prompt:   "In what year was the Union of Lublin signed?",
		answer:   "1569",
		keywords: []string{"union of lublin"},
		tip:      "The Grand Duchy of Lithuania and the Kingdom of Poland merged into the Commonwealth.",
	},
	{
		id: "date-may-constitution", category: "date",
		prompt:   "In what year was the Constitution of May 3 adopted?",
		answer:   "1791",
		keywords: []string{"constitution of may 3"},
		tip:      "The first written constitution in Europe.",
	},
	{
		id: "date-kosciuszko", category: "date",
		prompt:   "In what year did the Kosciuszko Uprising begin?",
		answer:   "1794",
		keywords: []string{"kosciuszko uprising"},
		tip:      "One year before the final partition of the Commonwealth.",
	},
	{
		id: "date-third-partition", category: "date",
		prompt:   "In what year did the Third Partition of the Commonwealth take place?",
		answer:   "1795",
		keywords: []string{"third partition"},
		tip:      "Belarusian lands became part of the Russian Empire.",
	},
	{
		id: "date-kalinowski", category: "date",
		prompt:   "In what years did the uprising led by Kastus Kalinowski take place?",
		answer:   "1863-1864",
		keywords: []string{"1863", "kalinowski uprising"},
		tip:      "Also called the January Uprising.",
	},
	{
		id: "date-bnr", category: "date",
		prompt:   "In what year was the Belarusian People's Republic proclaimed?",
		answer:   "1918",
		keywords: []string{"belarusian people's republic", "bnr"},
		tip:      "Proclaimed on March 25, during the German occupation.",
	},
	{
		id: "date-bssr", category: "date",
		prompt:   "In what year was the Belarusian SSR founded?",
		answer:   "1919",
		keywords: []string{"bssr", "belarusian ssr"},
		tip:      "One year after the BNR.",
	},
	{
		id: "date-chernobyl", category: "date",
		prompt:   "In what year did the Chernobyl disaster happen?",
		answer:   "1986",
		keywords: []string{"chernobyl"},
		tip:      "A large part of the fallout landed on Belarusian territory.",
	},
	{
		id: "date-independence", category: "date",
		prompt:   "In what year did the Republic of Belarus declare independence?",
		answer:   "1991",
		keywords: []string{"independence"},
		tip:      "The year the Soviet Union dissolved.",
	},
	{
		id: "date-constitution-rb", category: "date",
		prompt:   "In what year was the Constitution of the Republic of Belarus adopted?",
		answer:   "1994",
		keywords: []string{"constitution of belarus", "first presidential election"},
		tip:      "The first presidential election was held the same year.",
	},

	// Events: prompt names the year, the answer describes what happened.
	{
		id: "event-1569", category: "event",
		prompt:   "What happened in 1569?",
		answer:   "The Union of Lublin united the Grand Duchy of Lithuania and the Kingdom of Poland into the Commonwealth",
		keywords: []string{"union of lublin", "commonwealth"},
		tip:      "Think of the two states becoming one elective monarchy.",
	},
	{
		id: "event-1794", category: "event",
		prompt:   "What happened in 1794?",
		answer:   "The uprising led by Tadeusz Kosciuszko",
		keywords: []string{"kosciuszko uprising", "kosciuszko"},
		tip:      "Its leader later became a hero of the American Revolution too.",
	},
	{
		id: "event-1812", category: "event",
		prompt:   "What happened on Belarusian lands in 1812?",
		answer:   "The war of 1812 with battles fought across Belarusian territory",
		keywords: []string{"war of 1812", "napoleon"},
		tip:      "Napoleon's army crossed the Berezina river on the retreat.",
	},
	{
		id: "event-1918", category: "event",
		prompt:   "What happened in 1918?",
		answer:   "The proclamation of the Belarusian People's Republic",
		keywords: []string{"belarusian people's republic", "bnr"},
		tip:      "March 25 is still celebrated as Freedom Day.",
	},
	{
		id: "event-1986", category: "event",
		prompt:   "What happened in 1986?",
		answer:   "The accident at the Chernobyl nuclear power plant",
		keywords: []string{"chernobyl", "nuclear"},
		tip:      "The plant is just across the southern border.",
	},
	{
		id: "event-1991", category: "event",
		prompt:   "What happened in 1991?",
		answer:   "The Republic of Belarus declared independence",
		keywords: []string{"independence", "declaration"},
		tip:      "The BSSR became the Republic of Belarus.",
	},

	// Figures: prompt describes the achievement, the answer is the name.
	{
		id: "figure-skaryna", category: "figure",
		prompt:   "Who was the first Belarusian book printer and translator of the Bible?",
		answer:   "Francysk Skaryna",
		keywords: []string{"skaryna"},
		tip:      "His portrait hangs in university halls across the country.",
	},
	{
		id: "figure-kalinowski", category: "figure",
		prompt:   "Who led the national liberation uprising of 1863-1864?",
		answer:   "Kastus Kalinowski",
		keywords: []string{"kalinowski"},
		tip:      "Publisher of the clandestine 'Muzhytskaya Prauda'.",
	},
	{
		id: "figure-euphrosyne", category: "figure",
		prompt:   "Who founded monasteries and schools in Polotsk in the 12th century?",
		answer:   "Euphrosyne of Polotsk",
		keywords: []string{"euphrosyne"},
		tip:      "A patron saint of Belarus.",
	},
	{
		id: "figure-kosciuszko", category: "figure",
		prompt:   "Who led the 1794 uprising and is a national hero of Belarus, Poland and the USA?",
		answer:   "Tadeusz Kosciuszko",
		keywords: []string{"kosciuszko"},
		tip:      "Born at the Merachoushchyna estate near Kosava.",
	},
	{
		id: "figure-kupala", category: "figure",
		prompt:   "Which people's poet of Belarus wrote the play 'Paulinka'?",
		answer:   "Yanka Kupala",
		keywords: []string{"kupala"},
		tip:      "His name day coincides with the midsummer festival.",
	},
	{
		id: "figure-kolas", category: "figure",
		prompt:   "Which people's poet of Belarus wrote 'The New Land'?",
		answer:   "Yakub Kolas",
		keywords: []string{"kolas"},
		tip:      "His pen name means 'ear of grain'.",
	},

	// Achievements: prompt names the figure, the answer is what they did.
	{
		id: "achievement-skaryna", category: "achievement",
		prompt:   "What is Francysk Skaryna known for?",
		answer:   "The first Belarusian book printer who translated the Bible into the old Belarusian language",
		keywords: []string{"first printer", "printed the bible", "book printer"},
		tip:      "Printing press, Prague, 1517.",
	},
	{
		id: "achievement-kalinowski", category: "achievement",
		prompt:   "What is Kastus Kalinowski known for?",
		answer:   "Leading the national liberation uprising of 1863-1864 and publishing the first Belarusian newspaper",
		keywords: []string{"uprising", "1863"},
		tip:      "Letters from beneath the gallows.",
	},
	{
		id: "achievement-euphrosyne", category: "achievement",
		prompt:   "What is Euphrosyne of Polotsk known for?",
		answer:   "Enlightenment work and founding monasteries and schools in Polotsk",
		keywords: []string{"monasteries", "schools", "polotsk"},
		tip:      "She commissioned the famous six-pointed cross.",
	},
	{
		id: "achievement-bahdanovich", category: "achievement",
		prompt:   "What is Maksim Bahdanovich known for?",
		answer:   "Belarusian poet, prose writer, essayist and translator",
		keywords: []string{"poet", "translator"},
		tip:      "Author of the 'Vyanok' collection, died at 25.",
	},
	{
		id: "achievement-mstislavets", category: "achievement",
		prompt:   "What is Pyotr Mstislavets known for?",
		answer:   "Belarusian book printer and associate of Ivan Fyodorov",
		keywords: []string{"printer", "fyodorov"},
		tip:      "Co-printed the first dated Russian book, the 'Apostol'.",
	},
}
