package rewriter

import "fmt"

// Per-language reply instructions. The model is told to answer in the post's
// own language and to stay inside the compose box limits; anything it adds
// anyway is stripped by Clean.
var promptTemplates = map[string]string{
	"jpn": "次のツイートに対する自然で親しみやすい返信を日本語で書いてください。100文字以内、ハッシュタグ・絵文字・メンション・URLは使わないでください。返信の本文のみを出力してください。\n\nツイート: %s",
	"vie": "Viết một câu trả lời tự nhiên, thân thiện bằng tiếng Việt cho tweet sau. Tối đa 100 ký tự, không dùng hashtag, emoji, nhắc tên hay URL. Chỉ xuất nội dung trả lời.\n\nTweet: %s",
	"kor": "다음 트윗에 대한 자연스럽고 친근한 답글을 한국어로 작성해 주세요. 100자 이내로, 해시태그, 이모지, 멘션, URL은 사용하지 마세요. 답글 내용만 출력하세요.\n\n트윗: %s",
	"cmn": "请用中文为下面这条推文写一条自然友好的回复。不超过100个字符，不要使用话题标签、表情符号、提及或链接。只输出回复内容。\n\n推文: %s",
	"tha": "เขียนคำตอบที่เป็นธรรมชาติและเป็นมิตรเป็นภาษาไทยสำหรับทวีตต่อไปนี้ ไม่เกิน 100 ตัวอักษร ห้ามใช้แฮชแท็ก อิโมจิ การกล่าวถึง หรือลิงก์ แสดงเฉพาะข้อความตอบกลับเท่านั้น\n\nทวีต: %s",
}

const defaultTemplate = "Write a natural, friendly reply to the following tweet, in the same language as the tweet. Keep it under 100 characters. Do not use hashtags, emoji, mentions or URLs. Output only the reply text.\n\nTweet: %s"

// BuildPrompt returns the generation prompt for the post text in the detected
// language.
func BuildPrompt(text, lang string) string {
	tmpl, ok := promptTemplates[lang]
	if !ok {
		tmpl = defaultTemplate
	}
	return fmt.Sprintf(tmpl, text)
}
