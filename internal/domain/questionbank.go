package domain

// BuiltinQuestionBank returns the default questionnaire content: five
// departments with ten questions each. It is used when no database-backed
// loader is configured and by the migrate/seed tooling.
func BuiltinQuestionBank() map[string]Department {
	bank := make(map[string]Department, len(builtinQuestions))
	for name, questions := range builtinQuestions {
		qs := make([]string, len(questions))
		copy(qs, questions)
		bank[name] = Department{Name: name, Questions: qs}
	}
	return bank
}

var builtinQuestions = map[string][]string{
	"Sales": {
		"How clear and communicated are the overall company sales goals?",
		"How satisfied are you with the lead generation process and quality?",
		"How effective is the sales training and onboarding you received?",
		"Do you feel empowered to make decisions that benefit your sales efforts?",
		"How would you rate the tools and technologies provided for sales activities (e.g., CRM)?",
		"How often do you receive constructive feedback on your sales performance?",
		"How well do you feel your work-life balance is in this sales role?",
		"Do you believe there are sufficient opportunities for advancement within the sales team?",
		"How valued do you feel your contributions are to the overall success of the company?",
		"How open is the communication between the sales team and other departments?",
	},
	"Marketing": {
		"How aligned do you feel your individual goals are with the overall marketing strategy?",
		"How effective do you believe the processes are for campaign development and execution?",
		"How satisfied are you with the level of collaboration within the marketing team?",
		"Do you feel you have the autonomy to explore innovative marketing approaches?",
		"How would you rate the resources available for professional development in marketing?",
		"How clear is the feedback process on your marketing initiatives and performance?",
		"How manageable do you find your workload in your current marketing role?",
		"Do you see clear pathways for career progression within the marketing department?",
		"How recognized do you feel for your creative contributions and marketing successes?",
		"How well do you understand the impact of your marketing work on the company's bottom line?",
	},
	"Engineering": {
		"How well-defined are the project requirements and specifications you work on?",
		"How effective do you believe the code review processes are within your team?",
		"How satisfied are you with the opportunities to work with new technologies?",
		"Do you feel your input is valued in technical decision-making processes?",
		"How would you rate the quality of the tools and software you use for development?",
		"How often do you receive feedback on your technical skills and contributions?",
		"How sustainable do you find the pace and workload of your engineering projects?",
		"Are you aware of opportunities for specialization or leadership within the engineering organization?",
		"How much do you feel your technical expertise contributes to the company's innovation?",
		"How effective is the communication between engineering teams and other departments (e.g., product)?",
	},
	"Human Resources": {
		"How effectively do you believe the company's values are reflected in HR practices?",
		"How satisfied are you with the tools and systems used for HR management?",
		"How well do you feel employee grievances and concerns are addressed?",
		"Do you believe the performance evaluation process is fair and constructive?",
		"How would you rate the support provided by HR leadership and management?",
		"How clear is the communication regarding changes in company policies and procedures?",
		"How manageable do you find the workload associated with your HR responsibilities?",
		"Do you see opportunities for growth and specialization within the HR function?",
		"How valued do you feel your role is in supporting the overall employee experience?",
		"How effective is the collaboration between different teams within the HR department?",
	},
	"Finance": {
		"How clear and consistent are the financial reporting deadlines and expectations?",
		"How satisfied are you with the opportunities to develop your financial analysis skills?",
		"How effective do you believe the internal controls are within the finance department?",
		"Do you feel you have sufficient access to the data and information needed for your work?",
		"How would you rate the quality of the financial software and systems you use?",
		"How often do you receive feedback on the accuracy and efficiency of your work?",
		"How demanding do you find the workload during peak financial periods?",
		"Are you aware of opportunities for advancement or specialization within the finance team?",
		"How much do you feel your financial insights contribute to the company's strategic decisions?",
		"How effective is the communication between the finance department and other departments?",
	},
}
