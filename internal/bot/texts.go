package bot

const (
	textStart = "🌟 <b>Hello and welcome to the PaperNote Bot!</b> 🌟\n\n" +
		"✨ Here, you can effortlessly upload media and text. \n" +
		"📘 Use <b>/help</b> to learn how to use me. \n\n" +
		"Let’s embark on your creative journey together! 🚀\n\n" +
		"<i>This bot uses the PaperNote API ❤️😍 to upload images and texts.</i>"

	textHelp = "🤔 Need help? Just send me your media, or use the <b>/content</b> command to create an article. \n\n" +
		"📄 I'm here to assist you every step of the way!"

	textLove = "PaperNote ❤️😍❤️‍🔥😘"

	textHTMLTags = "📜 <b>HTML Formatting Options</b> 📜\n\n" +
		"You can enhance your messages using the following HTML tags:\n\n" +
		"<strong>Bold:</strong> Use <code>&lt;strong&gt; / &lt;b&gt;</code>\n" +
		"<code>&lt;strong&gt;This text is bold&lt;/strong&gt;</code>\n\n" +
		"<strong>Italic:</strong> Use <code>&lt;em&gt; / &lt;i&gt;</code>\n" +
		"<code>&lt;em&gt;This text is italic&lt;/em&gt;</code>\n\n" +
		"<strong>Underline:</strong> Use <code>&lt;u&gt;</code>\n" +
		"<code>&lt;u&gt;This text is underlined&lt;/u&gt;</code>\n\n" +
		"<strong>Ordered List:</strong> Use <code>&lt;ol&gt;&lt;li&gt;</code>\n" +
		"<code>&lt;ol&gt;&lt;li&gt;Item 1&lt;/li&gt;&lt;li&gt;Item 2&lt;/li&gt;&lt;/ol&gt;</code>\n\n" +
		"<strong>Bullet List:</strong> Use <code>&lt;ul&gt;&lt;li&gt;</code>\n" +
		"<code>&lt;ul&gt;&lt;li&gt;Item 1&lt;/li&gt;&lt;li&gt;Item 2&lt;/li&gt;&lt;/ul&gt;</code>\n\n" +
		"<strong>Link:</strong> Use <code>&lt;a href=&quot;URL&quot;&gt;</code>\n" +
		"<code>&lt;a href=&quot;https://papernote.online&quot;&gt;Link&lt;/a&gt;</code>\n\n" +
		"<strong>Image:</strong> Use <code>&lt;img src=&quot;URL&quot;&gt;</code>\n" +
		"<code>&lt;img src=&quot;image.jpg&quot; alt=&quot;description&quot;&gt;</code>\n\n" +
		"<strong>Block Quote:</strong> Use <code>&lt;blockquote&gt;</code>\n" +
		"<code>&lt;blockquote&gt;This is a quote.&lt;/blockquote&gt;</code>\n\n" +
		"<strong>Inline Code:</strong> Use <code>&lt;code&gt;</code>\n" +
		"<code>&lt;code&gt;console.log('Hello');&lt;/code&gt;</code>\n\n" +
		"<strong>Code Block:</strong> Use <code>&lt;pre&gt;&lt;code&gt;</code>\n" +
		"<code>&lt;pre&gt;&lt;code&gt;console.log('Hello');&lt;/code&gt;&lt;/pre&gt;</code>"

	textAskTitle   = "Please send me the title of the post:"
	textAskAuthor  = "Please send me the author of the post (optional): (or type 'skip' to skip)"
	textAskContent = "Please send me the HTML content of the post:"

	textPublished      = "Article Published ❤️‍🔥 \n\n%s"
	textPublishFailed  = "Error uploading post. Please try again later."
	textCancelled      = "Content upload canceled. 😿"
	textNothingActive  = "There is no content upload in progress."
	textAlreadyActive  = "You are already creating an article. Send /cancel to start over."
	textUnknownMessage = "Just send me your media, or use /content to create an article. See /help."

	textInvalidFileType   = "Invalid file type. Only images and videos are allowed."
	textUnsupportedMedia  = "Unsupported media type. Please send an image or video."
	textFileTooLarge      = "File size exceeds the maximum limit of 20MB."
	textDownloadFailed    = "File download failed. Please try again."
	textMediaUploadFailed = "There was an error uploading your media. Please try again later."
)
