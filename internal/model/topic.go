package model

// Topic 是学习主题目录中的一个大类，例如“数据结构”。
type Topic struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Subtopics []SubTopic `json:"subtopics"`
}

// SubTopic 是大类下的具体主题，Prompt 是点击后发送的起始问题。
type SubTopic struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
	Prompt   string `json:"prompt"`
}
