package service

import "strings"

// 降级回复表中的主题键。
const (
	TopicLinkedList      = "linkedList"
	TopicBinarySearch    = "binarySearch"
	TopicHashTable       = "hashTable"
	TopicSorting         = "sorting"
	TopicDefaultResponse = "defaultResponse"
)

type topicRule struct {
	keywords []string
	topic    string
}

// topicRules 按顺序匹配，先命中者优先。新增覆盖只能通过扩展这张表。
var topicRules = []topicRule{
	{keywords: []string{"linked list", "linkedlist", "linked-list"}, topic: TopicLinkedList},
	{keywords: []string{"binary search", "binarysearch", "binary-search"}, topic: TopicBinarySearch},
	{keywords: []string{"hash table", "hashtable", "hash map", "hashmap"}, topic: TopicHashTable},
	{keywords: []string{"sorting", "sort algorithm", "quicksort", "merge sort", "mergesort"}, topic: TopicSorting},
}

// ClassifyTopic 将用户消息映射到一个主题键，大小写不敏感，无匹配时返回 defaultResponse。
func ClassifyTopic(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.topic
			}
		}
	}
	return TopicDefaultResponse
}
