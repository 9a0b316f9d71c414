package analyzer

import "fmt"

const analysisPromptTemplate = `Based on the current incident and the similar historical incidents provided, perform a detailed analysis and provide:

1. **DIAGNOSIS**: A clear diagnosis of the problem based on the observed patterns
2. **ROOT CAUSE**: The most likely root cause of the problem
3. **RECOMMENDED ACTIONS**: A list of concrete actions to resolve the incident (minimum 3, maximum 7)
4. **CONFIDENCE**: A confidence score for the analysis (0.0 to 1.0)

Response format (JSON):
` + "```json" + `
{
  "diagnosis": "Detailed diagnosis here",
  "root_cause": "Identified root cause",
  "recommended_actions": [
    "Action 1",
    "Action 2",
    "Action 3"
  ],
  "confidence_score": 0.85
}
` + "```" + `

%s

Provide your analysis in JSON format as specified above.`

// analysisPrompt embeds the grounding context into the fixed analysis
// instruction.
func analysisPrompt(context string) string {
	return fmt.Sprintf(analysisPromptTemplate, context)
}

const optimizerPromptTemplate = `You rewrite verbose incident descriptions into compact search queries for an incident knowledge base. Keep only the technical symptoms, affected components and error identifiers. Respond with the optimized query and nothing else.

Example 1:
Incident: Since this morning around 9:30 several users in the Madrid office have been complaining that the invoicing web application takes more than 30 seconds to load any page, and sometimes shows a 504 gateway timeout error. Restarting the browser does not help.
Query: invoicing web application slow page loads 504 gateway timeout

Example 2:
Incident: The nightly batch job that exports transactions to the data warehouse failed again tonight. The log shows "ORA-01555 snapshot too old" and the job aborted after processing roughly half of the records. This is the third failure this week.
Query: nightly transaction export batch job ORA-01555 snapshot too old failure

Example 3:
Incident: Customers are reporting they cannot complete purchases on the mobile app. The payment screen spins forever and eventually shows a generic error. Our monitoring shows elevated 500 responses from the payments microservice since the last deploy.
Query: mobile app payment failures payments microservice 500 errors after deploy

Incident: %s
Query:`

// optimizerPrompt builds the few-shot rewrite prompt for a raw
// incident description.
func optimizerPrompt(description string) string {
	return fmt.Sprintf(optimizerPromptTemplate, description)
}
