package usecase

import "strings"

const answerSystemInstruction = `You are a helpful support assistant. Answer the user's question using the provided context from the FAQ knowledge base.
- If the answer is not in the context, say you don't know and suggest contacting support.
- Be concise and factual.
- When the question requests requirements, rules, or lists, provide an EXHAUSTIVE list from the context. Do not omit items that appear in other context snippets.
- If page numbers are present in the context, include the page number next to the relevant item like (p.X).
- Cite sources by their titles or file names when available.`

// buildAnswerPrompt assembles the grounding prompt from context chunk texts
// and the question. Pure and deterministic: identical inputs produce an
// identical prompt. Chunks are joined with blank lines in retrieval order.
func buildAnswerPrompt(contextChunks []string, question string) string {
	var b strings.Builder
	b.WriteString(answerSystemInstruction)
	b.WriteString("\n\nUse the following context to answer the question. Merge information across all snippets. If the question implies a list, enumerate ALL items found.\n\nContext:\n")
	b.WriteString(strings.Join(contextChunks, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
