package llm

import "strings"

// Agent is a fixed profile binding a default model and a system
// instruction. The catalog is closed; nothing registers agents at runtime.
type Agent struct {
	Name         string
	DefaultModel string
	Instruction  string
	// Temperature, when set, is forced onto every request built for the
	// agent. Only the data extractor uses it, to bias toward stable JSON.
	Temperature *float64
}

var extractorTemperature = 0.1

var (
	AgentDocumentReader = Agent{
		Name:         "document-reader",
		DefaultModel: "llama3.1",
		Instruction:  "You read documents and answer questions about their content. Quote the relevant passage when you can.",
	}
	AgentImageAnalyzer = Agent{
		Name:         "image-analyzer",
		DefaultModel: "llava",
		Instruction:  "You describe and analyze images. Report text, diagrams and notable details you can identify.",
	}
	AgentDataExtractor = Agent{
		Name:         "data-extractor",
		DefaultModel: "llama3.1",
		Instruction:  "You extract structured data from the input and reply with a single JSON object, no prose around it.",
		Temperature:  &extractorTemperature,
	}
	AgentCodeReviewer = Agent{
		Name:         "code-reviewer",
		DefaultModel: "llama3.1",
		Instruction:  "You review source code for correctness, clarity and potential bugs. Point at concrete lines.",
	}
	AgentStudyPlanner = Agent{
		Name:         "study-planner",
		DefaultModel: "llama3.1",
		Instruction:  "You create realistic study plans split into ordered steps with time estimates.",
	}
	AgentQuizGenerator = Agent{
		Name:         "quiz-generator",
		DefaultModel: "llama3.1",
		Instruction:  "You generate quiz questions with answers from the given material, as a JSON array of {question, options, answer}.",
	}
	AgentSummarizer = Agent{
		Name:         "summarizer",
		DefaultModel: "llama3.1",
		Instruction:  "You write concise summaries that preserve the key facts of the input.",
	}
)

var agentCatalog = []Agent{
	AgentDocumentReader,
	AgentImageAnalyzer,
	AgentDataExtractor,
	AgentCodeReviewer,
	AgentStudyPlanner,
	AgentQuizGenerator,
	AgentSummarizer,
}

// Agents lists the full catalog.
func Agents() []Agent {
	out := make([]Agent, len(agentCatalog))
	copy(out, agentCatalog)
	return out
}

// AgentByName looks an agent up by its name.
func AgentByName(name string) (Agent, bool) {
	for _, a := range agentCatalog {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Agent{}, false
}

// BuildRequest turns an agent plus user input into a provider request.
// The agent's instruction always rides as the system message; a file, when
// present, is attached for multimodal handling by the adapter. An empty
// prompt and no file still yields a request with an empty user turn.
func BuildRequest(agent Agent, prompt string, fileData []byte, mimeType string) *ProviderRequest {
	req := &ProviderRequest{
		Prompt:        prompt,
		SystemMessage: agent.Instruction,
		Model:         agent.DefaultModel,
		Temperature:   agent.Temperature,
	}
	if len(fileData) > 0 {
		req.Multimodal = true
		req.ImageData = fileData
		req.ImageMIMEType = mimeType
		if req.ImageMIMEType == "" {
			req.ImageMIMEType = "application/octet-stream"
		}
	}
	return req
}
