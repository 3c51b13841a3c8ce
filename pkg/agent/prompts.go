package agent

import (
	"fmt"
	"strings"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/store"
)

// historyWindow bounds how many recent messages ride along on QA prompts.
const historyWindow = 6

// GuidanceNote is appended to answers produced without any document
// context, so the user knows the answer came from general knowledge.
const GuidanceNote = "\n\n**Note**: This answer is based on general knowledge. " +
	"For more specific and accurate answers, consider uploading relevant documents. " +
	"You can also ask follow-up questions about specific aspects."

const chatSystemPromptEnglish = `You are a professional enterprise AI assistant with extensive knowledge and document processing capabilities.

Working principles:
- Rely only on reliable information: prioritize provided document content and verified knowledge
- Clearly distinguish between document content, general knowledge, and inferred conclusions
- Acknowledge knowledge boundaries: mark uncertain information as "requires further confirmation"
- Use structured responses with clear headings and bullet points
- Provide necessary risk warnings for important decisions
- Match the response language to the user's query language`

const chatSystemPromptChinese = `你是一个专业的企业AI助手，具备丰富的知识储备和文档处理能力。

工作原则：
- 仅基于可靠信息：优先使用提供的文档内容和确凿的知识
- 明确区分文档内容、通用知识和推理结论
- 承认知识边界：对不确定的信息明确标注"需要进一步确认"
- 使用清晰的标题和要点组织结构化回答
- 对重要决策相关问题提供必要的风险提示
- 根据用户语言自动匹配回答语言`

func chatSystemPrompt(language string) string {
	if language == "Chinese" {
		return chatSystemPromptChinese
	}
	return chatSystemPromptEnglish
}

func translateMessages(text, targetLanguage string) []llm.Message {
	var system, user string
	switch strings.ToLower(targetLanguage) {
	case "english", "en", "英文":
		system = `You are a professional translator. Your task is to translate Chinese text to English.

CRITICAL REQUIREMENTS:
1. The input text is in CHINESE language
2. You MUST translate it to ENGLISH language
3. DO NOT output Chinese characters in your response
4. Preserve the meaning, formatting, and structure where possible
5. Output ONLY English text`
		user = "TRANSLATE THIS CHINESE TEXT TO ENGLISH (output only English):\n\n" + text
	case "chinese", "zh", "中文":
		system = `你是一个专业的翻译专家。你的任务是将英文文本翻译成中文。

重要要求：
1. 输入文本是英文语言
2. 你必须将其翻译成中文语言
3. 不要在回复中输出英文字符
4. 保持原有的格式和结构
5. 只输出中文文本`
		user = "请将以下英文文本翻译成中文（只输出中文）：\n\n" + text
	default:
		system = fmt.Sprintf(`You are a professional translator. Translate the following text to %s.

IMPORTANT: Output ONLY in %s language. Do not include the original text.`, targetLanguage, targetLanguage)
		user = fmt.Sprintf("Please translate this text to %s (output only in %s):\n\n%s", targetLanguage, targetLanguage, text)
	}
	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

func summarizeMessages(text, language string) []llm.Message {
	var system, user string
	if language == "Chinese" {
		system = `你是一个专业的企业文档总结专家。请创建结构化、全面的文档摘要，突出关键要点、主要观点和重要细节。

总结要求：
- 使用执行摘要格式，包含核心结论
- 识别关键业务信息、数据和建议
- 保持客观中立，避免主观解读
- 标注重要的风险点或决策要素
- 使用专业商业语言`
		user = "请对以下文档内容进行专业总结：\n\n" + text
	} else {
		system = "You are a professional enterprise document summarization expert. " +
			"Create structured, comprehensive document summaries highlighting key " +
			"points, main ideas, and important details.\n\n" +
			"Summary requirements:\n" +
			"- Use executive summary format with core conclusions\n" +
			"- Identify key business information, data, and recommendations\n" +
			"- Maintain objectivity and avoid subjective interpretations\n" +
			"- Mark important risk factors or decision elements\n" +
			"- Use professional business language"
		user = "Please provide a professional summary of the following document:\n\n" + text
	}
	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

func analyzeMessages(text string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: "You are an expert analyst. Analyze the provided text for key insights, " +
			"patterns, trends, and important findings. Provide a structured analysis " +
			"with clear observations and implications."},
		{Role: "user", Content: "Please analyze the following text:\n\n" + text},
	}
}

func extractMessages(text, query string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: "You are an expert information extractor. Extract the specific information " +
			"requested from the provided text. Be precise and comprehensive. " +
			"Format your response clearly with the extracted information."},
		{Role: "user", Content: fmt.Sprintf("Extract the following from the text: %s\n\nText:\n%s", query, text)},
	}
}

func compareMessages(texts []string, query string) []llm.Message {
	var combined strings.Builder
	for i, text := range texts {
		fmt.Fprintf(&combined, "\n\n--- Document %d ---\n%s", i+1, text)
	}
	return []llm.Message{
		{Role: "system", Content: "You are an expert document comparator. Compare the provided documents " +
			"and highlight key similarities, differences, and unique aspects. " +
			"Structure your comparison clearly with specific examples."},
		{Role: "user", Content: fmt.Sprintf("Compare these documents focusing on: %s\n%s", query, combined.String())},
	}
}

// qaMessages assembles the QA conversation: system prompt, a recency window
// of history, then the grounded or knowledge-only question prompt.
func qaMessages(question string, contextDocs []string, history []llm.Message, language string) []llm.Message {
	messages := []llm.Message{{Role: "system", Content: chatSystemPrompt(language)}}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, h := range history {
		if h.Content != "" {
			messages = append(messages, h)
		}
	}

	context := strings.Join(contextDocs, "\n\n")
	var prompt string
	switch {
	case context != "" && language == "Chinese":
		prompt = fmt.Sprintf(`基于提供的文档内容，请回答以下问题：%s

## 文档内容：
%s

## 回答要求：
1. **优先使用文档内容**：主要基于上述文档内容回答
2. **标明信息来源**：明确区分文档中的信息和通用知识
3. **承认限制**：如果文档中没有足够信息，请明确说明
4. **结构化回答**：使用清晰的标题和要点组织答案
5. **风险提示**：对重要决策相关问题提供必要提醒`, question, context)
	case context != "":
		prompt = fmt.Sprintf(`Based on the provided document content, please answer the following question: %s

## Document Content:
%s

## Response Requirements:
1. **Prioritize document content**: Base your answer primarily on the above document content
2. **Indicate information sources**: Clearly distinguish between document information and general knowledge
3. **Acknowledge limitations**: If there isn't sufficient information in the documents, clearly state this
4. **Structured response**: Use clear headings and bullet points to organize your answer
5. **Risk alerts**: Provide necessary warnings for decision-related questions`, question, context)
	case language == "Chinese":
		prompt = fmt.Sprintf(`请基于你的知识回答以下问题：%s

## 回答要求：
1. **知识边界**：仅提供确信的、可靠的信息
2. **不确定性说明**：对不确定的信息明确标注"需要进一步确认"
3. **专业建议**：涉及重要决策时建议咨询相关专业人士
4. **结构化回答**：使用清晰的逻辑结构组织答案`, question)
	default:
		prompt = fmt.Sprintf(`Please answer the following question based on your knowledge: %s

## Response Requirements:
1. **Knowledge boundaries**: Only provide information you are confident and reliable about
2. **Uncertainty indication**: Clearly mark uncertain information as "requires further confirmation"
3. **Professional advice**: For important decisions, recommend consulting relevant professionals
4. **Structured response**: Use clear logical structure to organize your answer`, question)
	}

	return append(messages, llm.Message{Role: "user", Content: prompt})
}

var selectionVerbs = map[store.Task]string{
	store.TaskTranslate: "translate",
	store.TaskSummarize: "summarize",
	store.TaskAnalyze:   "analyze",
	store.TaskExtract:   "extract from",
}

// SelectionPrompt builds the disambiguation message shown when a
// single-document task hits multiple cached documents.
func SelectionPrompt(task store.Task, docs []store.CachedDocument) string {
	verb := selectionVerbs[task]
	if verb == "" {
		verb = "process"
	}

	var list []string
	for i, d := range docs {
		list = append(list, fmt.Sprintf("%d. %s (%d characters)", i+1, d.Name, d.Size()))
	}

	return fmt.Sprintf(
		"Multiple files found in this session. Please specify which file(s) you want to %s:\n\n"+
			"%s\n\n"+
			"Please respond with:\n"+
			"- A single number (e.g., '1') to %s that specific file\n"+
			"- Multiple numbers (e.g., '1,3') to %s multiple files\n"+
			"- 'all' to %s all files\n"+
			"- 'latest' to %s the most recent file",
		verb, strings.Join(list, "\n"), verb, verb, verb, verb)
}
