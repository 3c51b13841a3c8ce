package intent

import (
	"testing"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		query string
		want  store.Task
	}{
		{"please translate this document", store.TaskTranslate},
		{"give me the text in english", store.TaskTranslate},
		{"summarize the quarterly report", store.TaskSummarize},
		{"what are the key points here", store.TaskSummarize},
		{"analyze the revenue trends", store.TaskAnalyze},
		{"extract all dates from the contract", store.TaskExtract},
		{"list all vendors mentioned", store.TaskExtract},
		{"compare these two proposals", store.TaskCompare},
		{"what is the warranty period?", store.TaskQA},
		{"", store.TaskQA},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.query))
		})
	}
}

// Translation wins when markers from several groups appear.
func TestDetectPriorityOrder(t *testing.T) {
	assert.Equal(t, store.TaskTranslate, Detect("translate the summary"))
	assert.Equal(t, store.TaskSummarize, Detect("summarize the analysis findings"))
}

func TestShouldUseRAG(t *testing.T) {
	assert.True(t, ShouldUseRAG("explain the second clause"))
	assert.True(t, ShouldUseRAG("请解释一下这个条款"))
	assert.False(t, ShouldUseRAG("count the invoices"))
}

func TestIsAskingAboutFileContent(t *testing.T) {
	assert.True(t, IsAskingAboutFileContent("according to the document, who signs?"))
	assert.True(t, IsAskingAboutFileContent("根据文件内容回答"))
	assert.False(t, IsAskingAboutFileContent("hello there"))
}
