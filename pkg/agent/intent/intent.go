// Package intent classifies user queries into document tasks. The
// classifier is rule based and ordered: translation markers win over
// summarization, summarization over analysis, and so on, with question
// answering as the fallback.
package intent

import (
	"strings"

	"ai-docchat-be/pkg/store"
)

var translationMarkers = []string{
	"translate", "translation", "translate this", "translate the file",
	"please translate", "convert to", "in english", "in chinese",
}

var summarizationMarkers = []string{
	"summarize", "summary", "summarise", "key points", "main points",
	"executive summary", "brief", "overview", "gist", "essence",
}

var analysisMarkers = []string{
	"analyze", "analyse", "analysis", "insights", "trends", "patterns",
	"examine", "evaluate", "assess", "review", "interpret", "findings",
}

var extractionMarkers = []string{
	"extract", "find all", "list all", "get all", "identify", "pull out",
	"collect", "gather", "retrieve", "locate",
}

var comparisonMarkers = []string{
	"compare", "comparison", "contrast", "difference", "differences",
	"similar", "similarities", "versus", "vs", "against", "between",
}

// Detect classifies the query into a task. Marker groups are checked in
// priority order; a query matching none of them is question answering.
func Detect(query string) store.Task {
	q := strings.ToLower(query)

	for _, group := range []struct {
		markers []string
		task    store.Task
	}{
		{translationMarkers, store.TaskTranslate},
		{summarizationMarkers, store.TaskSummarize},
		{analysisMarkers, store.TaskAnalyze},
		{extractionMarkers, store.TaskExtract},
		{comparisonMarkers, store.TaskCompare},
	} {
		for _, marker := range group.markers {
			if strings.Contains(q, marker) {
				return group.task
			}
		}
	}
	return store.TaskQA
}

var explanationPatterns = []string{
	"解释", "解释一下", "解释这个", "说明", "说明一下", "说明这个",
	"结合", "结合这个", "结合文件", "结合文档", "综合", "综合这个",
	"再解释", "再说明", "再阐述",
	"explain", "explanation", "tell me about", "what is", "what are",
	"how does", "why is", "describe", "elaborate", "clarify",
}

// ShouldUseRAG reports whether an analysis-classified query is really an
// explanation request, which grounds better through retrieval than through
// whole-document analysis.
func ShouldUseRAG(query string) bool {
	q := strings.ToLower(query)
	for _, p := range explanationPatterns {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

var fileContentPatterns = []string{
	"根据", "根据文件", "根据文档", "根据信息", "基于", "基于文件", "基于文档",
	"文件信息", "文档信息", "文档中", "文件中", "资料中", "内容中",
	"based on", "according to", "from the", "in the", "document", "file",
	"information", "content", "data", "text",
}

// IsAskingAboutFileContent reports whether the user expects the answer to
// come from documents even though the message carries no upload.
func IsAskingAboutFileContent(query string) bool {
	q := strings.ToLower(query)
	for _, p := range fileContentPatterns {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}
