package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ennekai/ennekai-lab/internal/ai"
	"github.com/ennekai/ennekai-lab/internal/config"
)

// Draft is the model's article output before it gets a slug and image.
type Draft struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// ContentGenerator turns an accepted topic into a full article draft.
type ContentGenerator struct {
	llm   ai.Completer
	model string
	cfg   config.GeneratorConfig
}

func NewContentGenerator(llm ai.Completer, model string, cfg config.GeneratorConfig) *ContentGenerator {
	return &ContentGenerator{llm: llm, model: model, cfg: cfg}
}

// Generate asks the model for the article body and parses its JSON
// reply. Any empty, unparsable, or incomplete reply fails with
// ErrContentGeneration.
func (g *ContentGenerator) Generate(ctx context.Context, topic string, keywords []string) (*Draft, error) {
	resp, err := g.llm.Complete(ctx, ai.Request{
		Model:       g.model,
		Prompt:      g.buildPrompt(topic, keywords),
		Temperature: 0.7,
		MaxTokens:   8000,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentGeneration, err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(resp), &draft); err != nil {
		return nil, fmt.Errorf("%w: parse reply: %v", ErrContentGeneration, err)
	}
	if draft.Title == "" || draft.Excerpt == "" || draft.Content == "" ||
		len(draft.Tags) == 0 || draft.Category == "" {
		return nil, fmt.Errorf("%w: reply is missing required fields", ErrContentGeneration)
	}
	return &draft, nil
}

func (g *ContentGenerator) buildPrompt(topic string, keywords []string) string {
	return fmt.Sprintf(`あなたはAI技術専門のライターです。以下のトピックについて、%d〜%d文字の実用的で詳細な記事を日本語で執筆してください。

## トピック
%s

## キーワード
%s

## 記事の要件
1. **文字数**: %d〜%d文字（これは重要）
2. **対象読者**: AI技術に興味のある初心者〜中級者
3. **文体**: 丁寧語で分かりやすく、専門用語は解説付き
4. **構成**:
   - 導入（トピックの背景と重要性）
   - メインセクション（3〜5つの見出しで詳細解説）
   - 実践的なヒントや活用方法
   - まとめと今後の展望

## 品質基準
- 具体例やユースケースを含める
- 最新の情報を反映（2024-2025年）
- 読者がすぐに活用できる実践的な内容
- SEOを意識した自然なキーワード配置

## 出力形式（JSON）
{
  "title": "魅力的な記事タイトル（30〜50文字）",
  "excerpt": "記事の概要（100〜150文字）",
  "content": "Markdown形式の本文（## で見出し、### で小見出し）",
  "tags": ["タグ1", "タグ2", "タグ3", "タグ4", "タグ5"],
  "category": "カテゴリ名（%s のいずれか）"
}

JSONのみを出力してください。`,
		g.cfg.MinChars, g.cfg.MaxChars,
		topic,
		strings.Join(keywords, "、"),
		g.cfg.MinChars, g.cfg.MaxChars,
		strings.Join(g.cfg.ArticleCategories, "、"))
}
