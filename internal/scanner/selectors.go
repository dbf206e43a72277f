package scanner

// X.com DOM selectors
// These are isolated here because X changes their DOM frequently
// Update these when scraping breaks

const (
	// Feed selectors
	FeedContainer = `[data-testid="primaryColumn"]`
	TweetArticle  = `article[data-testid="tweet"]`

	// Tweet content selectors
	TweetText      = `[data-testid="tweetText"]`
	TweetAuthor    = `[data-testid="User-Name"]`
	TweetTimestamp = `time`
	TweetLink      = `a[href*="/status/"]`
	TweetMedia     = `[data-testid="tweetPhoto"], [data-testid="videoPlayer"]`
	VerifiedBadge  = `[data-testid="icon-verified"]`
	AnalyticsLink  = `a[href*="/analytics"]`

	// Engagement selectors
	ReplyCount   = `[data-testid="reply"]`
	RetweetCount = `[data-testid="retweet"]`
	LikeCount    = `[data-testid="like"]`

	// Action selectors, scoped inside a tweet article
	ReplyButton   = `[data-testid="reply"]`
	LikeButton    = `[data-testid="like"]`
	UnlikeButton  = `[data-testid="unlike"]`
	RetweetButton = `[data-testid="retweet"]`

	// Compose box selectors
	ComposeTextarea = `[data-testid="tweetTextarea_0"]`
	ComposeSubmit   = `[data-testid="tweetButton"]`

	// Profile page selectors
	FollowButton     = `[data-testid$="-follow"]`
	FollowingButton  = `[data-testid$="-unfollow"]`
	UserProfileBadge = `[data-testid="UserName"] [data-testid="icon-verified"]`

	// Tweet type indicators
	RetweetIndicator = `[data-testid="socialContext"]`
	QuoteIndicator   = `[data-testid="quoteTweet"]`

	// Login page indicators (for detecting auth state)
	HomeIndicator = `[data-testid="SideNav_NewTweet_Button"]`
	LoginForm     = `[data-testid="loginButton"]`
)

// Common wait conditions
const (
	WaitForFeed   = FeedContainer
	WaitForTweets = TweetArticle
)
