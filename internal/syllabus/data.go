package syllabus

import "fmt"

// Built-in curriculum for all four classes. Topic labels are bilingual
// (English | Hindi) and shown to students as-is.

func topic(name string, hours, days int) Topic {
	return Topic{Name: name, Hours: hours, Days: days}
}

func contentMonth(number int, description, color string, content ...Subject) Month {
	return Month{
		Number:        number,
		Description:   description,
		Color:         color,
		Content:       content,
		DailySchedule: GenerateDailySchedule(content),
	}
}

func revisionMonth(number int, description string, plan []string) Month {
	return Month{
		Number:            number,
		Description:       description,
		Color:             "text-red-500",
		DailyRevisionPlan: plan,
	}
}

const (
	colorGreen  = "text-green-500"
	colorYellow = "text-yellow-500"
)

func builtinSyllabus(level ClassLevel) *ClassSyllabus {
	switch level {
	case Class9:
		return class9Syllabus()
	case Class10:
		return class10Syllabus()
	case Class11:
		return class11Syllabus()
	case Class12:
		return class12Syllabus()
	}
	return nil
}

// middleMonths fills months 3..11 with the recurring pattern: the class's
// core subjects plus a revision bucket covering the previous month.
// revisionLabel is a format string receiving the previous month number.
func middleMonths(description, revisionLabel string, core func(m int) []Subject) []Month {
	months := make([]Month, 0, 9)
	for m := 3; m <= 11; m++ {
		subjects := core(m)
		subjects = append(subjects, Subject{
			SubjectName: fmt.Sprintf("Revision (M%d)", m-1),
			Icon:        "🔄",
			Topics:      []Topic{topic(fmt.Sprintf(revisionLabel, m-1), 30, 10)},
		})
		months = append(months, contentMonth(m, description, colorYellow, subjects...))
	}
	return months
}

func class9Syllabus() *ClassSyllabus {
	months := []Month{
		contentMonth(1, "FOUNDATION | आधारशिला", colorGreen,
			Subject{SubjectName: "Maths", Icon: "📐", Topics: []Topic{
				topic("Number Systems | संख्या पद्धति", 20, 10),
				topic("Polynomials | बहुपद", 15, 8),
			}},
			Subject{SubjectName: "Science", Icon: "🔬", Topics: []Topic{
				topic("Motion | गति", 30, 15),
				topic("Matter in Surroundings | हमारे आस-पास के पदार्थ", 25, 15),
			}},
			Subject{SubjectName: "SST", Icon: "🌍", Topics: []Topic{
				topic("French Revolution | फ्रांसीसी क्रांति", 20, 10),
				topic("India: Size & Location | भारत: आकार और स्थिति", 15, 8),
			}},
		),
		contentMonth(2, "M1 REVISION + PROGRESS | M1 पुनरावृत्ति", colorYellow,
			Subject{SubjectName: "Maths", Icon: "📐", Topics: []Topic{
				topic("Coordinate Geometry | निर्देशांक ज्यामिति", 20, 10),
			}},
			Subject{SubjectName: "Science", Icon: "🔬", Topics: []Topic{
				topic("Force & Laws of Motion | बल और गति के नियम", 30, 15),
			}},
			Subject{SubjectName: "SST", Icon: "🌍", Topics: []Topic{
				topic("Socialism in Europe | यूरोप में समाजवाद", 20, 10),
			}},
			Subject{SubjectName: "Revision (M1)", Icon: "🔄", Topics: []Topic{
				topic("M1: Maths & Science Recap", 30, 15),
				topic("M1: SST Revision", 15, 15),
			}},
		),
	}
	months = append(months, middleMonths("Course Progress + Previous Month Revision", "M%d Full Revision & MCQs", func(_ int) []Subject {
		return []Subject{
			{SubjectName: "Maths", Icon: "📐", Topics: []Topic{topic("Core Topics | मुख्य विषय", 30, 10)}},
			{SubjectName: "Science", Icon: "🧪", Topics: []Topic{topic("Science Concepts | विज्ञान अवधारणाएं", 30, 10)}},
			{SubjectName: "SST", Icon: "🌍", Topics: []Topic{topic("Social Progress | सामाजिक प्रगति", 30, 10)}},
		}
	})...)
	months = append(months, revisionMonth(12, "FINAL REVISION | अंतिम पुनरावृत्ति", []string{
		"Day 1: Number Systems Mastery | संख्या पद्धति",
		"Day 2: Polynomials | बहुपद",
		"Day 3: Linear Equations | रैखिक समीकरण",
		"Day 4: Coordinate Geometry | निर्देशांक ज्यामिति",
		"Day 5: Lines & Angles | रेखाएँ और कोण",
		"Day 18: Physics - Motion Recap | गति",
		"Day 23: Chemistry - Matter States | पदार्थ की अवस्थाएं",
		"Day 27: Biology - Cell & Tissues | कोशिका और ऊतक",
	}))

	return &ClassSyllabus{
		ClassLevel: Class9,
		Goal:       "365 Days Mastery Protocol (Bilingual)",
		Rules: []string{
			"6 Hours Daily Self-Study",
			"Mathematics: Revision Focus",
			"Science/SST: Practice",
			"Sunday: Mega Revision Day (No New Tasks)",
			"Rule: M(N) includes Revision of M(N-1)",
		},
		Months: months,
	}
}

func class10Syllabus() *ClassSyllabus {
	months := []Month{
		contentMonth(1, "BOARD FOUNDATION | बोर्ड आधार", colorGreen,
			Subject{SubjectName: "Maths", Icon: "📐", Topics: []Topic{
				topic("Real Numbers | वास्तविक संख्याएँ", 20, 10),
				topic("Polynomials | बहुपद", 15, 8),
			}},
			Subject{SubjectName: "Science", Icon: "🔬", Topics: []Topic{
				topic("Chemical Reactions | रासायनिक अभिक्रियाएं", 30, 15),
				topic("Life Processes | जैव प्रक्रम", 30, 15),
			}},
			Subject{SubjectName: "SST", Icon: "🌍", Topics: []Topic{
				topic("Nationalism in Europe | यूरोप में राष्ट्रवाद", 20, 10),
				topic("Power Sharing | सत्ता की साझेदारी", 15, 8),
			}},
		),
		contentMonth(2, "M1 REVISION + NEW TOPICS", colorYellow,
			Subject{SubjectName: "Maths", Icon: "📐", Topics: []Topic{
				topic("Pair of Linear Equations | रैखिक समीकरण युग्म", 30, 15),
			}},
			Subject{SubjectName: "Science", Icon: "🔬", Topics: []Topic{
				topic("Acids, Bases & Salts | अम्ल, क्षारक और लवण", 30, 15),
			}},
			Subject{SubjectName: "SST", Icon: "🌍", Topics: []Topic{
				topic("Nationalism in India | भारत में राष्ट्रवाद", 30, 15),
			}},
			Subject{SubjectName: "Revision (M1)", Icon: "🔄", Topics: []Topic{
				topic("M1 All Subjects Revision", 30, 15),
				topic("M1 Science/SST MCQs", 30, 15),
			}},
		),
	}
	months = append(months, middleMonths("Board Protocol + Previous Month Mastery", "M%d Final Revision & MCQ Drill", func(_ int) []Subject {
		return []Subject{
			{SubjectName: "Maths", Icon: "📐", Topics: []Topic{topic("Trigonometry | त्रिकोणमिति", 30, 10)}},
			{SubjectName: "Science", Icon: "🧪", Topics: []Topic{topic("Carbon Compounds | कार्बन यौगिक", 30, 10)}},
			{SubjectName: "SST", Icon: "🌍", Topics: []Topic{topic("Political Parties | राजनीतिक दल", 30, 10)}},
		}
	})...)
	months = append(months, revisionMonth(12, "BOARD VICTORY | बोर्ड विजय", []string{
		"Day 1: Real Numbers Recap | वास्तविक संख्याएँ",
		"Day 2: Polynomials | बहुपद",
		"Day 4: Quadratic Equations | द्विघात समीकरण",
		"Day 16: Physics - Reflection | परावर्तन",
		"Day 19: Physics - Electricity | विद्युत",
		"Day 21: Chemistry - Reactions | रासायनिक अभिक्रियाएं",
		"Day 26: Biology - Life Processes | जैव प्रक्रम",
	}))

	return &ClassSyllabus{
		ClassLevel: Class10,
		Goal:       "Board 100% Mastery (Bilingual)",
		Rules: []string{
			"6 Hours Daily Self-Study",
			"Mathematics: No MCQ - Revision Only",
			"Science/SST: Compulsory Practice",
			"Sunday: Mega Revision Protocol",
			"Rule: M(N) includes Revision/MCQ of M(N-1)",
		},
		Months: months,
	}
}

func class11Syllabus() *ClassSyllabus {
	months := []Month{
		contentMonth(1, "CORE SCIENCE START | मुख्य विज्ञान प्रारंभ", colorGreen,
			Subject{SubjectName: "Maths", Icon: "📐", Topics: []Topic{
				topic("Sets & Relations | समुच्चय और संबंध", 30, 10),
			}},
			Subject{SubjectName: "Physics", Icon: "🔬", Topics: []Topic{
				topic("Units & Measurement | मात्रक और मापन", 20, 5),
				topic("Motion | गति", 30, 10),
			}},
			Subject{SubjectName: "Chemistry", Icon: "🧪", Topics: []Topic{
				topic("Basic Concepts | मूल अवधारणाएं", 25, 10),
				topic("Atomic Structure | परमाणु संरचना", 35, 10),
			}},
			Subject{SubjectName: "Biology", Icon: "🧬", Topics: []Topic{
				topic("Classification | वर्गीकरण", 30, 15),
			}},
		),
		contentMonth(2, "M1 MASTERY + NEW SCIENCE", colorYellow,
			Subject{SubjectName: "Physics", Icon: "🔬", Topics: []Topic{
				topic("Laws of Motion | गति के नियम", 40, 20),
			}},
			Subject{SubjectName: "Maths", Icon: "📐", Topics: []Topic{
				topic("Functions | फलन", 20, 10),
			}},
			Subject{SubjectName: "Revision (M1)", Icon: "🔄", Topics: []Topic{
				topic("M1 PCMB Full Review", 30, 15),
				topic("M1 PCB MCQ Session", 30, 15),
			}},
		),
	}
	months = append(months, middleMonths("Science Progression + M-1 Revision", "M%d PCMB Detailed Review", func(_ int) []Subject {
		return []Subject{
			{SubjectName: "Maths", Icon: "📐", Topics: []Topic{topic("Algebra | बीजगणित", 30, 10)}},
			{SubjectName: "Physics", Icon: "🔬", Topics: []Topic{topic("Mechanics | यांत्रिकी", 30, 10)}},
			{SubjectName: "Chemistry", Icon: "🧪", Topics: []Topic{topic("Bonding | बंधन", 30, 10)}},
			{SubjectName: "Biology", Icon: "🧬", Topics: []Topic{topic("Physiology | शरीर विज्ञान", 30, 10)}},
		}
	})...)
	months = append(months, revisionMonth(12, "FINAL REVISION | अंतिम पुनरावृत्ति", []string{
		"Day 1: Sets & Relations | समुच्चय और संबंध",
		"Day 14: Physics - Units & Motion | मात्रक और गति",
		"Day 23: Chem - Basic Concepts | रसायन विज्ञान की मूल अवधारणाएं",
		"Day 26: Chem - Organic Basics | कार्बनिक रसायन",
	}))

	return &ClassSyllabus{
		ClassLevel: Class11,
		Goal:       "Pure Science Stream (PCMB Only)",
		Rules: []string{
			"6 Hours Daily Self-Study",
			"Mathematics: Revision Focus",
			"Physics/Chem/Bio: Practice",
			"Sunday: Mega Revision Protocol",
			"Rule: M(N) includes Revision/MCQ of M(N-1)",
		},
		Months: months,
	}
}

func class12Syllabus() *ClassSyllabus {
	months := []Month{
		contentMonth(1, "BOARD SCIENCE START | बोर्ड विज्ञान प्रारंभ", colorGreen,
			Subject{SubjectName: "Maths", Icon: "📐", Topics: []Topic{
				topic("Relations & Functions | संबंध और फलन", 25, 10),
			}},
			Subject{SubjectName: "Physics", Icon: "🔬", Topics: []Topic{
				topic("Electrostatics | स्थिरवैद्युतिकी", 35, 15),
			}},
			Subject{SubjectName: "Chemistry", Icon: "🧪", Topics: []Topic{
				topic("Solutions | विलयन", 30, 10),
				topic("Electrochemistry | वैद्युतरसायन", 40, 15),
			}},
			Subject{SubjectName: "Biology", Icon: "🧬", Topics: []Topic{
				topic("Reproduction | प्रजनन", 35, 15),
			}},
		),
		contentMonth(2, "M1 REVISION + BOARD TOPICS", colorYellow,
			Subject{SubjectName: "Physics", Icon: "🔬", Topics: []Topic{
				topic("Current Electricity | विद्युत धारा", 40, 20),
			}},
			Subject{SubjectName: "Chemistry", Icon: "🧪", Topics: []Topic{
				topic("Chemical Kinetics | रासायनिक बलगतिकी", 30, 15),
			}},
			Subject{SubjectName: "Revision (M1)", Icon: "🔄", Topics: []Topic{
				topic("M1 PCMB Board Practice", 30, 15),
				topic("M1 PCB MCQ Drill", 30, 15),
			}},
		),
	}
	months = append(months, middleMonths("Final Boards + M-1 Revision", "M%d Previous Month Content", func(_ int) []Subject {
		return []Subject{
			{SubjectName: "Maths", Icon: "📐", Topics: []Topic{topic("Calculus | कलन", 40, 10)}},
			{SubjectName: "Physics", Icon: "🔬", Topics: []Topic{topic("Optics | प्रकाशिकी", 40, 10)}},
			{SubjectName: "Chemistry", Icon: "🧪", Topics: []Topic{topic("Organic | कार्बनिक", 40, 10)}},
			{SubjectName: "Biology", Icon: "🧬", Topics: []Topic{topic("Genetics | आनुवंशिकी", 40, 10)}},
		}
	})...)
	months = append(months, revisionMonth(12, "BOARD FINAL DRILL | बोर्ड अभ्यास", []string{
		"Day 1: Relations & Functions | संबंध और फलन",
		"Day 14: Physics - Electrostatics | स्थिरवैद्युतिकी",
		"Day 22: Chem - Solutions | विलयन",
		"Day 29: Chem - Biomolecules | जैव-अणु",
	}))

	return &ClassSyllabus{
		ClassLevel: Class12,
		Goal:       "Board 95% Target (PCMB Only)",
		Rules: []string{
			"6 Hours Daily Self-Study",
			"Mathematics: Formula Revision",
			"Physics/Chem/Bio: Practice",
			"Sunday: Mega Revision Protocol",
			"Rule: M(N) includes Revision/MCQ of M-1",
		},
		Months: months,
	}
}
