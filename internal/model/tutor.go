package model

// TutorResponse 是实时调用与降级回复共同遵循的标准化回复结构。
// Complexity 与 FurtherReadings 是可选字段：缺失时保持缺失，不做补全。
type TutorResponse struct {
	Explanation     string      `json:"explanation"`
	CodeBlocks      []CodeBlock `json:"codeBlocks"`
	Complexity      *string     `json:"complexity,omitempty"`
	FurtherReadings []string    `json:"furtherReadings,omitempty"`
}

// Clone 返回一份深拷贝。
func (r TutorResponse) Clone() TutorResponse {
	out := TutorResponse{Explanation: r.Explanation}
	out.CodeBlocks = append([]CodeBlock{}, r.CodeBlocks...)
	if r.Complexity != nil {
		c := *r.Complexity
		out.Complexity = &c
	}
	if r.FurtherReadings != nil {
		out.FurtherReadings = append([]string{}, r.FurtherReadings...)
	}
	return out
}
