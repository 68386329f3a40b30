package pages

import (
	"github.com/a-h/templ"

	"github.com/wfunc/improvbattle/markup"
)

// landingScript repeats the trimmed-empty check before the form leaves the
// browser and raises the blocking notice rendered by the server.
const landingScript = `<script>(function(){
var form=document.getElementById("start-form");
function notify(msg){
if(form.dataset.noticeMode==="inline"){var n=document.getElementById("notice");n.textContent=msg;n.hidden=false;return;}
alert(msg);
}
form.addEventListener("submit",function(e){
if(document.getElementById("player-name").value.trim()!==""){return;}
e.preventDefault();
notify(form.dataset.emptyMessage);
});
var blocking=document.getElementById("blocking-notice");
if(blocking){alert(blocking.dataset.message);}
})();</script>`

func Landing(v LandingView) templ.Component {
	return page(v.Title, templ.Join(
		markup.El("main", []markup.Attr{markup.A("class", "landing")},
			markup.El("h1", nil, markup.Text(v.Title)),
			startForm(v),
		),
		blockingNotice(v),
		templ.Raw(landingScript),
	))
}

func startForm(v LandingView) templ.Component {
	return markup.El("form", []markup.Attr{
		markup.A("id", "start-form"),
		markup.A("method", "post"),
		markup.A("action", v.StartPath),
		markup.A("data-notice-mode", v.NoticeMode),
		markup.A("data-empty-message", v.EmptyMessage),
	},
		markup.El("label", []markup.Attr{markup.A("for", "player-name")}, markup.Text("Enter your name")),
		nameInput(v.Name),
		inlineNotice(v),
		markup.El("button", []markup.Attr{markup.A("type", "submit")}, markup.Text("Start Game")),
	)
}

func nameInput(value string) templ.Component {
	return markup.Void("input", []markup.Attr{
		markup.A("id", "player-name"),
		markup.A("name", "name"),
		markup.A("type", "text"),
		markup.A("autocomplete", "off"),
		markup.Flag("autofocus"),
		markup.A("value", value),
	})
}

// inlineNotice is the placeholder the inline mode writes into; it stays
// hidden until there is something to say.
func inlineNotice(v LandingView) templ.Component {
	if v.NoticeMode != "inline" {
		return nil
	}
	attrs := []markup.Attr{markup.A("id", "notice"), markup.A("class", "notice"), markup.A("role", "alert")}
	if v.Notice == nil {
		return markup.El("p", append(attrs, markup.Flag("hidden")))
	}
	return markup.El("p", attrs, markup.Text(v.Notice.Message))
}

func blockingNotice(v LandingView) templ.Component {
	if v.NoticeMode == "inline" || v.Notice == nil {
		return templ.NopComponent
	}
	return markup.El("div", []markup.Attr{
		markup.A("id", "blocking-notice"),
		markup.Flag("hidden"),
		markup.A("data-message", v.Notice.Message),
	})
}
