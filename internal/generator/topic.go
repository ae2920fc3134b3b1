package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/ennekai/ennekai-lab/internal/ai"
	"github.com/ennekai/ennekai-lab/internal/config"
	"github.com/ennekai/ennekai-lab/internal/topiclog"
)

const (
	maxTopicAttempts = 5
	trendPickCount   = 3
	sourcePickCount  = 5
	exclusionWindow  = 20
)

// Proposal is an accepted article topic.
type Proposal struct {
	Topic    string
	Keywords []string
}

// Proposer asks the model for article topics until one passes the
// duplicate check.
type Proposer struct {
	llm   ai.Completer
	model string
	pools config.GeneratorConfig
	rng   *rand.Rand
}

func NewProposer(llm ai.Completer, model string, pools config.GeneratorConfig, rng *rand.Rand) *Proposer {
	return &Proposer{llm: llm, model: model, pools: pools, rng: rng}
}

type topicReply struct {
	Topic          string   `json:"topic"`
	SuggestedTitle string   `json:"suggestedTitle"`
	Keywords       []string `json:"keywords"`
}

// Propose returns the first candidate the duplicate check accepts.
// Parse failures and duplicates each consume one of the 5 attempts;
// transport errors abort the run. headlines is optional live context
// for the prompt.
func (p *Proposer) Propose(ctx context.Context, tlog *topiclog.Log, headlines []string) (*Proposal, error) {
	prompt := p.buildPrompt(tlog, headlines)

	for attempt := 1; attempt <= maxTopicAttempts; attempt++ {
		resp, err := p.llm.Complete(ctx, ai.Request{
			Model:       p.model,
			Prompt:      prompt,
			Temperature: 0.9,
			JSONOnly:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("propose topic: %w", err)
		}

		var reply topicReply
		if err := json.Unmarshal([]byte(resp), &reply); err != nil {
			log.Printf("WARN: topic attempt %d/%d: parse: %v (raw: %s)", attempt, maxTopicAttempts, err, resp)
			continue
		}
		if reply.Topic == "" || reply.SuggestedTitle == "" || len(reply.Keywords) == 0 {
			log.Printf("WARN: topic attempt %d/%d: missing required field (raw: %s)", attempt, maxTopicAttempts, resp)
			continue
		}

		if topiclog.IsDuplicate(reply.Topic, reply.Keywords, tlog) {
			log.Printf("Duplicate topic %q, retrying... (%d/%d)", reply.Topic, attempt, maxTopicAttempts)
			continue
		}

		return &Proposal{Topic: reply.SuggestedTitle, Keywords: reply.Keywords}, nil
	}

	return nil, ErrGenerationExhausted
}

func (p *Proposer) buildPrompt(tlog *topiclog.Log, headlines []string) string {
	category := p.pools.Categories[p.rng.Intn(len(p.pools.Categories))]
	trendWords := pickRandom(p.rng, p.pools.TrendKeywords, trendPickCount)
	sources := pickRandom(p.rng, p.pools.Sources, sourcePickCount)

	existing := "（まだ記事がありません）"
	if topics := tlog.Recent(exclusionWindow); len(topics) > 0 {
		var sb strings.Builder
		for i, t := range topics {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString("- " + t)
		}
		existing = sb.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `あなたはAI技術ブログのトピック提案者です。

## タスク
「%s」カテゴリで、最新のAI技術に関する実用的で興味深い記事トピックを1つ提案してください。

## 考慮すべきトレンドキーワード
%s

## 参考にすべき情報源
%s
`, category, strings.Join(trendWords, "、"), "- "+strings.Join(sources, "\n- "))

	if len(headlines) > 0 {
		sb.WriteString("\n## 最近のAI関連ニュース見出し\n")
		for _, h := range headlines {
			sb.WriteString("- " + h + "\n")
		}
	}

	fmt.Fprintf(&sb, `
## 避けるべき既存トピック（類似したものは避けてください）
%s

## 要件
1. 具体的で実用的なトピック（初心者〜中級者向け）
2. 2024-2025年の最新トレンドを反映
3. %d〜%d文字の記事が書ける深さのあるトピック
4. 他の記事と差別化できるユニークな切り口

## 出力形式（JSON）
{
  "topic": "記事のトピック（具体的なタイトルではなく、テーマ）",
  "suggestedTitle": "提案する記事タイトル",
  "keywords": ["キーワード1", "キーワード2", "キーワード3", "キーワード4", "キーワード5"]
}

JSONのみを出力してください。`, existing, p.pools.MinChars, p.pools.MaxChars)

	return sb.String()
}

// pickRandom returns up to n distinct elements of pool in random order,
// leaving pool itself untouched.
func pickRandom(rng *rand.Rand, pool []string, n int) []string {
	out := make([]string, len(pool))
	copy(out, pool)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
