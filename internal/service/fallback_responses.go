package service

import "algotutor-go/internal/model"

func strPtr(s string) *string { return &s }

// fallbackResponses 是上游配额耗尽或限流时使用的静态回复，启动后只读。
// 代码统一为 JavaScript，不会按用户偏好语言转换。
var fallbackResponses = map[string]model.TutorResponse{
	TopicLinkedList: {
		Explanation: "A linked list is a linear data structure where each element (node) stores a value and a reference to the next node. " +
			"Unlike arrays, nodes are not stored contiguously, so inserting or removing a node only requires updating references " +
			"instead of shifting elements. The trade-off is that there is no random access: reaching the k-th element means walking " +
			"the list from the head. Variations include doubly linked lists (each node also points to the previous node) and " +
			"circular linked lists (the tail points back to the head).",
		CodeBlocks: []model.CodeBlock{
			{
				Language: "javascript",
				Code: `class ListNode {
  constructor(value, next = null) {
    this.value = value;
    this.next = next;
  }
}

class LinkedList {
  constructor() {
    this.head = null;
    this.size = 0;
  }

  prepend(value) {
    this.head = new ListNode(value, this.head);
    this.size++;
  }

  append(value) {
    const node = new ListNode(value);
    if (!this.head) {
      this.head = node;
    } else {
      let current = this.head;
      while (current.next) {
        current = current.next;
      }
      current.next = node;
    }
    this.size++;
  }

  remove(value) {
    if (!this.head) return false;
    if (this.head.value === value) {
      this.head = this.head.next;
      this.size--;
      return true;
    }
    let current = this.head;
    while (current.next && current.next.value !== value) {
      current = current.next;
    }
    if (!current.next) return false;
    current.next = current.next.next;
    this.size--;
    return true;
  }

  toArray() {
    const out = [];
    for (let node = this.head; node; node = node.next) {
      out.push(node.value);
    }
    return out;
  }
}`,
			},
		},
		Complexity: strPtr("Access/search: O(n). Insert or delete at the head: O(1). Append without a tail pointer: O(n). Space: O(n)."),
		FurtherReadings: []string{
			"Doubly linked lists",
			"Floyd's cycle detection algorithm",
			"Reversing a linked list in place",
		},
	},
	TopicBinarySearch: {
		Explanation: "Binary search finds a target value in a sorted array by repeatedly halving the search range. " +
			"Compare the target with the middle element: if they are equal you are done, if the target is smaller continue in the " +
			"left half, otherwise continue in the right half. Because the range halves each step, the search finishes in logarithmic " +
			"time. The input must be sorted, and care is needed with the midpoint computation and loop bounds to avoid off-by-one errors.",
		CodeBlocks: []model.CodeBlock{
			{
				Language: "javascript",
				Code: `function binarySearch(arr, target) {
  let lo = 0;
  let hi = arr.length - 1;

  while (lo <= hi) {
    const mid = lo + Math.floor((hi - lo) / 2);
    if (arr[mid] === target) {
      return mid;
    }
    if (arr[mid] < target) {
      lo = mid + 1;
    } else {
      hi = mid - 1;
    }
  }
  return -1;
}

// binarySearch([1, 3, 5, 7, 9, 11], 7) === 3`,
			},
		},
		Complexity: strPtr("Time: O(log n). Space: O(1) iterative, O(log n) recursive."),
		FurtherReadings: []string{
			"Lower bound and upper bound searches",
			"Binary search on the answer",
			"Searching in a rotated sorted array",
		},
	},
	TopicHashTable: {
		Explanation: "A hash table maps keys to values using a hash function that turns each key into an index of an underlying array " +
			"of buckets. Lookups, inserts and deletes are constant time on average because the hash jumps straight to the right bucket. " +
			"When two keys hash to the same bucket (a collision) the table resolves it with chaining (a list per bucket) or open " +
			"addressing (probing for another slot). Keeping the load factor low by resizing keeps operations fast.",
		CodeBlocks: []model.CodeBlock{
			{
				Language: "javascript",
				Code: `class HashTable {
  constructor(capacity = 16) {
    this.buckets = Array.from({ length: capacity }, () => []);
    this.count = 0;
  }

  hash(key) {
    let h = 0;
    for (const ch of String(key)) {
      h = (h * 31 + ch.charCodeAt(0)) >>> 0;
    }
    return h % this.buckets.length;
  }

  set(key, value) {
    const bucket = this.buckets[this.hash(key)];
    const entry = bucket.find(([k]) => k === key);
    if (entry) {
      entry[1] = value;
      return;
    }
    bucket.push([key, value]);
    this.count++;
  }

  get(key) {
    const entry = this.buckets[this.hash(key)].find(([k]) => k === key);
    return entry ? entry[1] : undefined;
  }

  delete(key) {
    const bucket = this.buckets[this.hash(key)];
    const index = bucket.findIndex(([k]) => k === key);
    if (index === -1) return false;
    bucket.splice(index, 1);
    this.count--;
    return true;
  }
}`,
			},
		},
		Complexity: strPtr("Average: O(1) for get/set/delete. Worst case with many collisions: O(n). Space: O(n)."),
		FurtherReadings: []string{
			"Open addressing and linear probing",
			"Load factor and rehashing",
			"Consistent hashing",
		},
	},
	TopicSorting: {
		Explanation: "Sorting arranges elements in order. Simple algorithms such as insertion sort run in quadratic time but are " +
			"fast on small or nearly sorted inputs. Divide-and-conquer algorithms do better: merge sort splits the array in half, " +
			"sorts each half and merges them, guaranteeing O(n log n) time and a stable result at the cost of extra memory. " +
			"Quicksort partitions around a pivot and is usually fastest in practice, but degrades to O(n^2) with consistently bad pivots.",
		CodeBlocks: []model.CodeBlock{
			{
				Language: "javascript",
				Code: `function mergeSort(arr) {
  if (arr.length <= 1) return arr;

  const mid = Math.floor(arr.length / 2);
  const left = mergeSort(arr.slice(0, mid));
  const right = mergeSort(arr.slice(mid));

  const merged = [];
  let i = 0;
  let j = 0;
  while (i < left.length && j < right.length) {
    if (left[i] <= right[j]) {
      merged.push(left[i++]);
    } else {
      merged.push(right[j++]);
    }
  }
  return merged.concat(left.slice(i), right.slice(j));
}`,
			},
		},
		Complexity: strPtr("Merge sort: O(n log n) time in all cases, O(n) extra space. Quicksort: O(n log n) average, O(n^2) worst, O(log n) stack space."),
		FurtherReadings: []string{
			"Quicksort partition schemes",
			"Heap sort",
			"Counting sort and radix sort",
		},
	},
	TopicDefaultResponse: {
		Explanation: "I'm currently unable to reach the AI service, so here is a quick general guide instead. " +
			"Data structures organize data (arrays, linked lists, stacks, queues, hash tables, trees and graphs), and algorithms " +
			"operate on them (searching, sorting, traversal, dynamic programming and greedy strategies). When studying a topic, " +
			"learn its core operations, analyse their time and space complexity, and practise by implementing it from scratch. " +
			"Please try your question again in a little while.",
		CodeBlocks: []model.CodeBlock{
			{
				Language: "javascript",
				Code: `// A stack: last in, first out
const stack = [];
stack.push(1);
stack.push(2);
stack.pop(); // 2

// A queue: first in, first out
const queue = [];
queue.push(1);
queue.push(2);
queue.shift(); // 1`,
			},
		},
		FurtherReadings: []string{
			"Big-O notation",
			"Arrays vs linked lists",
			"Recursion and divide and conquer",
		},
	},
}

// FallbackResponse 返回主题对应的降级回复副本；未知主题使用 defaultResponse。
func FallbackResponse(topic string) model.TutorResponse {
	resp, ok := fallbackResponses[topic]
	if !ok {
		resp = fallbackResponses[TopicDefaultResponse]
	}
	return resp.Clone()
}
