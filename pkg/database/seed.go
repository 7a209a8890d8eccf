package database

import (
	"encoding/json"

	"english_placement_backend/internal/model"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func mcq(level model.CEFRLevel, prompt string, options []string, correct string) model.Question {
	opts, _ := json.Marshal(options)
	return model.Question{
		SkillType:     model.SkillReading,
		QuestionType:  model.QuestionMCQ,
		CEFRLevel:     level,
		Prompt:        prompt,
		Options:       opts,
		CorrectAnswer: strPtr(correct),
		MaxPoints:     1,
		Active:        true,
	}
}

func gap(level model.CEFRLevel, prompt, correct string) model.Question {
	return model.Question{
		SkillType:     model.SkillReading,
		QuestionType:  model.QuestionGapFill,
		CEFRLevel:     level,
		Prompt:        prompt,
		CorrectAnswer: strPtr(correct),
		MaxPoints:     1,
		Active:        true,
	}
}

func listening(level model.CEFRLevel, qType model.QuestionType, prompt, audio string, options []string, correct string) model.Question {
	var opts json.RawMessage
	if options != nil {
		opts, _ = json.Marshal(options)
	}
	return model.Question{
		SkillType:     model.SkillListening,
		QuestionType:  qType,
		CEFRLevel:     level,
		Prompt:        prompt,
		Options:       opts,
		AudioURL:      audio,
		CorrectAnswer: strPtr(correct),
		MaxPoints:     1,
		Active:        true,
	}
}

func writing(level model.CEFRLevel, qType model.QuestionType, prompt string, maxPoints int) model.Question {
	return model.Question{
		SkillType:      model.SkillWriting,
		QuestionType:   qType,
		CEFRLevel:      level,
		Prompt:         prompt,
		MaxPoints:      maxPoints,
		RequiresReview: true,
		Active:         true,
	}
}

func speaking(level model.CEFRLevel, qType model.QuestionType, prompt string, maxPoints int) model.Question {
	return model.Question{
		SkillType:      model.SkillSpeaking,
		QuestionType:   qType,
		CEFRLevel:      level,
		Prompt:         prompt,
		MaxPoints:      maxPoints,
		RequiresReview: true,
		Active:         true,
	}
}

// seedQuestionBank installs the starter bank: two receptive items per
// skill/level pair plus one productive prompt per level, enough for a full
// personalized session on a fresh database.
func seedQuestionBank(db *gorm.DB) error {
	items := []model.Question{
		// Reading
		mcq(model.LevelA1, "My name ___ Anna.", []string{"is", "are", "am", "be"}, "is"),
		gap(model.LevelA1, "I have two ___ (brother).", "brothers"),
		mcq(model.LevelA2, "She ___ to work by bus every day.", []string{"goes", "go", "going", "gone"}, "goes"),
		gap(model.LevelA2, "Yesterday we ___ (watch) a film at home.", "watched"),
		mcq(model.LevelB1, "If it rains tomorrow, we ___ the picnic.", []string{"will cancel", "cancel", "cancelled", "would cancel"}, "will cancel"),
		gap(model.LevelB1, "I have lived here ___ 2019.", "since"),
		mcq(model.LevelB2, "The report, ___ findings surprised everyone, was published last week.", []string{"whose", "which", "that", "who"}, "whose"),
		gap(model.LevelB2, "Hardly ___ we arrived when the storm began. (auxiliary)", "had"),
		mcq(model.LevelC1, "His argument was compelling, ___ somewhat repetitive.", []string{"albeit", "despite", "whereas", "notwithstanding that"}, "albeit"),
		gap(model.LevelC1, "The committee insisted that the proposal ___ (be) revised before submission.", "be"),
		mcq(model.LevelC2, "The author's prose is characterised by a certain ___, an unwillingness to state anything plainly.", []string{"obliqueness", "obloquy", "obduracy", "obsequiousness"}, "obliqueness"),
		gap(model.LevelC2, "Seldom ___ so much been owed by so many to so few. (auxiliary)", "has"),

		// Listening
		listening(model.LevelA1, model.QuestionMCQ, "Listen. What time does the shop open?", "clips/a1_shop_hours.mp3", []string{"9:00", "9:30", "10:00", "10:30"}, "9:00"),
		listening(model.LevelA1, model.QuestionTrueFalse, "Listen. The speaker has a dog. True or false?", "clips/a1_pets.mp3", []string{"true", "false"}, "true"),
		listening(model.LevelA2, model.QuestionMCQ, "Listen to the phone message. Why is Maria calling?", "clips/a2_phone_message.mp3", []string{"to change a meeting", "to order food", "to book a taxi", "to ask for directions"}, "to change a meeting"),
		listening(model.LevelA2, model.QuestionGapFill, "Listen and complete: The train leaves from platform ___.", "clips/a2_station.mp3", nil, "4"),
		listening(model.LevelB1, model.QuestionMCQ, "Listen to the conversation. What do the speakers agree to do?", "clips/b1_weekend_plans.mp3", []string{"visit a museum", "go hiking", "see a film", "stay home"}, "go hiking"),
		listening(model.LevelB1, model.QuestionTrueFalse, "Listen to the news item. The road will be closed for two weeks. True or false?", "clips/b1_roadworks.mp3", []string{"true", "false"}, "false"),
		listening(model.LevelB2, model.QuestionMCQ, "Listen to the interview. What is the researcher's main reservation about the study?", "clips/b2_interview.mp3", []string{"the sample size", "the funding source", "the timeline", "the methodology"}, "the sample size"),
		listening(model.LevelB2, model.QuestionGapFill, "Listen and complete: The speaker describes the policy as a ___ measure.", "clips/b2_policy.mp3", nil, "stopgap"),
		listening(model.LevelC1, model.QuestionMCQ, "Listen to the lecture excerpt. What does the lecturer imply about earlier research?", "clips/c1_lecture.mp3", []string{"it overstated its conclusions", "it was fraudulent", "it was underfunded", "it remains definitive"}, "it overstated its conclusions"),
		listening(model.LevelC1, model.QuestionTrueFalse, "Listen. The speaker is being ironic about the committee's decision. True or false?", "clips/c1_irony.mp3", []string{"true", "false"}, "true"),
		listening(model.LevelC2, model.QuestionMCQ, "Listen to the debate excerpt. The second speaker's rebuttal chiefly relies on:", "clips/c2_debate.mp3", []string{"exposing a false dichotomy", "appeal to authority", "statistical evidence", "personal anecdote"}, "exposing a false dichotomy"),
		listening(model.LevelC2, model.QuestionGapFill, "Listen and complete: She dismissed the criticism as little more than ___.", "clips/c2_dismissal.mp3", nil, "posturing"),

		// Writing
		writing(model.LevelA1, model.QuestionFormFilling, "Complete the hotel check-in form with your name, nationality and arrival date.", 5),
		writing(model.LevelA2, model.QuestionShortMessage, "Write a short message (25-35 words) to a friend inviting them to dinner on Saturday.", 5),
		writing(model.LevelB1, model.QuestionShortMessage, "Write an email (60-80 words) to your landlord describing a problem in your flat and asking for it to be fixed.", 10),
		writing(model.LevelB2, model.QuestionOpenResponse, "Some people believe remote work harms team culture. Write a short essay (120-150 words) giving your opinion with reasons.", 10),
		writing(model.LevelC1, model.QuestionOpenResponse, "Write a review (150-180 words) of a book or film that you think is overrated, justifying your assessment.", 10),
		writing(model.LevelC2, model.QuestionOpenResponse, "\"Progress is merely nostalgia for the future.\" Discuss (180-220 words).", 10),

		// Speaking
		speaking(model.LevelA1, model.QuestionInterview, "Introduce yourself: say your name, where you are from, and one thing you like.", 5),
		speaking(model.LevelA2, model.QuestionPictureDescription, "Describe the picture of a family in a park. What are the people doing?", 5),
		speaking(model.LevelB1, model.QuestionInterview, "Describe a journey you enjoyed. Where did you go and what made it memorable? Speak for about one minute.", 10),
		speaking(model.LevelB2, model.QuestionPictureDescription, "Compare the two photographs of city life and village life. Which would you prefer, and why?", 10),
		speaking(model.LevelC1, model.QuestionInterview, "Some argue that universities should drop entrance exams entirely. Present both sides, then your own view. Speak for about two minutes.", 10),
		speaking(model.LevelC2, model.QuestionInterview, "To what extent can a language be said to shape the thoughts of its speakers? Develop a nuanced position.", 10),
	}

	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
