package pages

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/wfunc/improvbattle/markup"
)

// gameScript keeps the header and widget in step with the query string and,
// when enabled, holds the presence socket open.
//
// Presence frames: uint16 message id, uint16 payload length, payload.
const gameScript = `<script>(function(){
var main=document.getElementById("game");
var header=document.getElementById("game-header");
function currentName(){var n=new URLSearchParams(location.search).get("name");return n?n:main.dataset.defaultName;}
window.addEventListener("popstate",function(){
var n=currentName();
header.textContent=main.dataset.title+" - Welcome, "+n+"!";
document.querySelectorAll(main.dataset.element).forEach(function(el){el.setAttribute("player-name",n);el.dataset.playerName=n;});
});
if(!main.dataset.presencePath){return;}
function packet(id){var a=new Uint8Array(4);new DataView(a.buffer).setUint16(0,id);return a;}
var proto=location.protocol==="https:"?"wss:":"ws:";
var ws=new WebSocket(proto+"//"+location.host+main.dataset.presencePath+"?name="+encodeURIComponent(main.dataset.presenceName));
ws.binaryType="arraybuffer";
var hb=setInterval(function(){if(ws.readyState===1){ws.send(packet(1));}},Number(main.dataset.heartbeatMs));
ws.onmessage=function(ev){
var d=new DataView(ev.data);
if(d.getUint16(0)!==301){return;}
var body=JSON.parse(new TextDecoder().decode(new Uint8Array(ev.data,4,d.getUint16(2))));
var p=document.getElementById("presence");
p.textContent=body.online+" on stage";
p.hidden=false;
};
ws.onclose=function(){clearInterval(hb);};
window.addEventListener("pagehide",function(){if(ws.readyState===1){ws.send(packet(102));}ws.close();});
})();</script>`

func Game(v GameView) templ.Component {
	return page(v.Title, templ.Join(
		markup.El("main", gameAttrs(v),
			markup.El("h1", []markup.Attr{markup.A("id", "game-header")}, markup.Text(Greeting(v.Title, v.PlayerName))),
			presenceBadge(v),
			markup.El("section", []markup.Attr{markup.A("class", "voice-agent-container")}, v.Widget),
		),
		templ.Raw(gameScript),
	))
}

// gameAttrs carries what gameScript needs to re-derive the header and to
// open the presence socket.
func gameAttrs(v GameView) []markup.Attr {
	attrs := []markup.Attr{
		markup.A("id", "game"),
		markup.A("class", "game"),
		markup.A("data-title", v.Title),
		markup.A("data-default-name", v.DefaultName),
		markup.A("data-element", v.Element),
	}
	if v.PresencePath != "" {
		attrs = append(attrs,
			markup.A("data-presence-path", v.PresencePath),
			markup.A("data-presence-name", v.PlayerName),
			markup.A("data-heartbeat-ms", strconv.FormatInt(v.HeartbeatMillis, 10)),
		)
	}
	return attrs
}

func presenceBadge(v GameView) templ.Component {
	if v.PresencePath == "" {
		return nil
	}
	return markup.El("p", []markup.Attr{markup.A("id", "presence"), markup.A("class", "presence"), markup.Flag("hidden")})
}
