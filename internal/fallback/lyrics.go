package fallback

import (
	"strings"
)

type mood int

const (
	moodDefault mood = iota
	moodSad
	moodEpic
)

func detectMood(style string) mood {
	lower := strings.ToLower(style)
	switch {
	case containsAny(lower, []string{"sad", "rain", "blue"}):
		return moodSad
	case containsAny(lower, []string{"epic", "war", "battle"}):
		return moodEpic
	default:
		return moodDefault
	}
}

// Templates use {topic} as the only placeholder.
var lyricTemplates = map[string][3]string{
	"ja": {
		moodDefault: "[Verse 1]\n街を歩けば (Walking in the city)\nリズムを感じて (Feel the rhythm)\n未来は僕らの手の中に (Future is in our hands)\n迷わず進もう (Let's go without hesitation)\n\n[Chorus]\nそれが {topic} (That's {topic})\n自由に生きて (Living freely)\n手を掲げて (Raise your hands)\n魔法を感じて (Feel the magic)",
		moodSad:     "[Verse 1]\n窓の外は雨 (Mado no soto wa ame)\n君の影を探して (Kimi no kage o sagashite)\nネオンライトが滲む (Neon lights blur)\n心はまだ痛む (My heart still hurts)\n\n[Chorus]\n{topic}の記憶 (Memories of {topic})\n色褪せないまま (Not fading away)\nサヨナラは言えない (Can't say goodbye)\n涙が止まらない (Tears won't stop)",
		moodEpic:    "[Verse 1]\n灰の中から立ち上がれ (Rise from the ashes)\n運命の声を聴け (Hear the voice of destiny)\n嵐の中を進む (Moving through the storm)\n勇気を胸に (With courage in our hearts)\n\n[Chorus]\n{topic}のために！戦う今夜 (For {topic}! Fight tonight)\n光よりも強く (Brighter than light)\n歴史に刻むこの瞬間 (Carve this moment in history)\n勝利を掴め (Seize the victory)",
	},
	"vi": {
		moodDefault: "[Verse 1]\nDạo bước trên phố đông\nCảm nhận nhịp điệu trong lòng\nTương lai nằm trong tay ta\nNgại chi đường đời phong ba\n\n[Chorus]\nĐó chính là {topic}\nSống tự do thỏa thích\nGiơ tay lên trời cao\nCảm nhận phép màu nào",
		moodSad:     "[Verse 1]\nMưa rơi bên hiên vắng\nTìm bóng hình em trong nắng\nĐèn đường nhạt nhòa hư ảo\nTim đau biết làm sao?\n\n[Chorus]\nKý ức về {topic}\nChẳng thể nào phai nhòa\nLời chia tay chưa nói\nLệ rơi mãi không thôi",
		moodEpic:    "[Verse 1]\nĐứng lên từ tro tàn đổ nát\nNghe tiếng gọi của định mệnh vang vọng\nVượt qua bão tố cuồng phong\nLòng dũng cảm rực cháy trong tim\n\n[Chorus]\nVì {topic}! Ta chiến đấu đêm nay!\nSáng hơn cả ánh hào quang\nKhắc ghi khoảnh khắc này vào lịch sử\nChiến thắng nằm trong tầm tay",
	},
	"en": {
		moodDefault: "[Verse 1]\nWalking down the street, feeling the beat\nLife is a puzzle, incomplete\nBut we keep moving, yeah we flow\nWhere the river takes us, we go\n\n[Chorus]\nIt's all about {topic}, yeah\nLiving life without a care\nHands in the air, everywhere\nFeel the magic, if you dare",
		moodSad:     "[Verse 1]\nRaindrops falling on the window pane\nThinking about you and the eased pain\nThe city lights blur into grey\nI wish you hadn't gone away\n\n[Chorus]\nOh, {topic}, why did it end?\nJust a broken heart I cannot mend\nMemories fading in the mist\nThe last goodbye, the final kiss",
		moodEpic:    "[Verse 1]\nRise from the ashes, stand tall\nHeed the destiny, answer the call\nThrough the fire and the storm we ride\nWith honor and courage by our side\n\n[Chorus]\nFor the {topic}! We fight tonight!\nBurning brighter than the morning light\nHistory written in our blood and sweat\nA victory we will never forget",
	},
}

const styleHeaderRunes = 30

// GenerateLyrics writes a short lyric sheet from canned verses. lang selects
// Japanese ("ja") or Vietnamese ("vi"); anything else gets English.
func GenerateLyrics(topic, style, lang string) string {
	set, ok := lyricTemplates[lang]
	if !ok {
		set = lyricTemplates["en"]
	}
	content := strings.ReplaceAll(set[detectMood(style)], "{topic}", topic)

	head := []rune(style)
	if len(head) > styleHeaderRunes {
		head = head[:styleHeaderRunes]
	}

	var sb strings.Builder
	sb.WriteString("[Style: ")
	sb.WriteString(string(head))
	sb.WriteString("...]\n[Topic: ")
	sb.WriteString(topic)
	sb.WriteString("]\n\n[Intro]\n(Instrumental Build-up)\n\n")
	sb.WriteString(content)
	sb.WriteString("\n\n[Outro]\n(Fade out)")
	return sb.String()
}
