package service

import (
	"fmt"

	"algotutor-go/internal/model"
)

// programmingLanguages 是客户端可选的语言列表。
var programmingLanguages = []string{
	"JavaScript",
	"Python",
	"Java",
	"C++",
	"Go",
	"Ruby",
	"C#",
	"TypeScript",
	"Swift",
	"Kotlin",
}

type subtopicSeed struct {
	id, name, prompt string
}

type topicSeed struct {
	id, name, icon string
	subtopics      []subtopicSeed
}

var topicCatalog = []topicSeed{
	{
		id: "data-structures", name: "Data Structures", icon: "fa-layer-group",
		subtopics: []subtopicSeed{
			{"arrays", "Arrays & Strings", "Explain arrays and their implementation. What are the common operations and their time complexities?"},
			{"linked-lists", "Linked Lists", "Explain linked lists and their variations (singly, doubly, circular). What are the advantages over arrays?"},
			{"stacks-queues", "Stacks & Queues", "Explain how stacks and queues work. What are the main operations and applications?"},
			{"trees-graphs", "Trees & Graphs", "Explain tree and graph data structures. How are they implemented and traversed?"},
			{"hash-tables", "Hash Tables", "Explain hash tables. How do they work internally and what are their time complexities?"},
		},
	},
	{
		id: "algorithms", name: "Algorithms", icon: "fa-code",
		subtopics: []subtopicSeed{
			{"sorting", "Sorting", "Explain the most common sorting algorithms. Compare their time and space complexities."},
			{"searching", "Searching", "Explain binary search and other searching algorithms. What are their time complexities?"},
			{"dynamic-programming", "Dynamic Programming", "Explain dynamic programming approach. What problems can it solve efficiently?"},
			{"greedy", "Greedy Algorithms", "Explain greedy algorithms. When are they useful and what are their limitations?"},
		},
	},
}

// CatalogService 提供学习主题目录与支持的编程语言列表，数据为静态只读。
type CatalogService interface {
	Topics() []model.Topic
	Languages() []string
	TopicPrompt(topicID, subtopicID string) (string, bool)
}

type catalogService struct{}

// NewCatalogService 创建一个新的 CatalogService。
func NewCatalogService() CatalogService {
	return catalogService{}
}

func (catalogService) Topics() []model.Topic {
	topics := make([]model.Topic, 0, len(topicCatalog))
	for _, t := range topicCatalog {
		topic := model.Topic{ID: t.id, Name: t.name, Icon: t.icon, Subtopics: make([]model.SubTopic, 0, len(t.subtopics))}
		for _, st := range t.subtopics {
			topic.Subtopics = append(topic.Subtopics, model.SubTopic{
				ID:       st.id,
				Name:     st.name,
				ParentID: t.id,
				Prompt:   subtopicPrompt(t, st),
			})
		}
		topics = append(topics, topic)
	}
	return topics
}

func (catalogService) Languages() []string {
	return append([]string{}, programmingLanguages...)
}

// TopicPrompt 返回子主题的起始问题；主题或子主题不存在时返回 false。
func (catalogService) TopicPrompt(topicID, subtopicID string) (string, bool) {
	for _, t := range topicCatalog {
		if t.id != topicID {
			continue
		}
		for _, st := range t.subtopics {
			if st.id == subtopicID {
				return subtopicPrompt(t, st), true
			}
		}
	}
	return "", false
}

func subtopicPrompt(t topicSeed, st subtopicSeed) string {
	if st.prompt != "" {
		return st.prompt
	}
	return fmt.Sprintf("Can you explain the concept of %s in %s?", st.name, t.name)
}
