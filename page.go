package main

import "html/template"

type templateArgs struct {
	Addr string
}

// webTemplate is the built-in websocket client. Handy for poking at a
// relay without writing any code: it speaks the full JSON protocol and
// prints every event it receives.
var webTemplate = template.Must(template.New("webTemplate").Parse(`
<html>
<head>
<title>wirehub {{.Addr}}</title>
<script type="text/javascript">
window.addEventListener("load", function() {

    var conn;
    var log = document.getElementById("log");

    function appendLog(text, bold) {
        var d = document.createElement("div");
        if (bold) {
            var b = document.createElement("b");
            b.textContent = text;
            d.appendChild(b);
        } else {
            d.textContent = text;
        }
        var doScroll = log.scrollTop == log.scrollHeight - log.clientHeight;
        log.appendChild(d);
        if (doScroll) {
            log.scrollTop = log.scrollHeight - log.clientHeight;
        }
    }

    function send(frame) {
        if (!conn || conn.readyState != WebSocket.OPEN) {
            appendLog("Not connected.", true);
            return;
        }
        conn.send(JSON.stringify(frame));
    }

    document.getElementById("form").addEventListener("submit", function(e) {
        e.preventDefault();
        var msg = document.getElementById("msg");
        var channel = document.getElementById("channel").value;
        if (!msg.value) {
            return;
        }
        send({type: "message", channel: channel, data: {text: msg.value}});
        msg.value = "";
    });

    document.getElementById("subscribe").addEventListener("click", function() {
        send({type: "subscribe", channel: document.getElementById("channel").value});
    });

    document.getElementById("unsubscribe").addEventListener("click", function() {
        send({type: "unsubscribe", channel: document.getElementById("channel").value});
    });

    document.getElementById("direct").addEventListener("click", function() {
        var target = parseInt(document.getElementById("target").value, 10);
        var msg = document.getElementById("msg");
        send({type: "direct", targetId: target, data: {text: msg.value}});
        msg.value = "";
    });

    document.getElementById("ping").addEventListener("click", function() {
        send({type: "ping"});
    });

    if (window["WebSocket"]) {
        var scheme = location.protocol == "https:" ? "wss://" : "ws://";
        conn = new WebSocket(scheme + location.host + "/");
        conn.onclose = function(evt) {
            appendLog("Connection closed.", true);
        }
        conn.onmessage = function(evt) {
            appendLog(evt.data);
        }
        document.getElementById("msg").focus();
    } else {
        appendLog("Your browser does not support WebSockets.", true);
    }
});
</script>
<style type="text/css">
html {
    overflow: hidden;
}

body {
    overflow: hidden;
    padding: 0.5em;
    margin: 0;
    width: 100%;
    height: 100%;
    background: gray;
    font-family: monospace;
}

#log {
    background: white;
    margin: 0;
    padding: 0.5em 0.5em 0.5em 0.5em;
    position: absolute;
    top: 4.5em;
    left: 0.5em;
    right: 0.5em;
    bottom: 3em;
    overflow: auto;
}

#form {
    padding: 0 0.5em 0 0.5em;
    margin: 0;
    position: absolute;
    bottom: 0.5em;
    left: 0px;
    width: 100%;
    overflow: hidden;
}

#controls {
    padding: 0.25em 0;
}
</style>
</head>
<body>
<h3>wirehub client {{.Addr}}</h3>
<div id="controls">
    channel <input type="text" id="channel" value="default" size="16"/>
    <button id="subscribe">subscribe</button>
    <button id="unsubscribe">unsubscribe</button>
    target <input type="text" id="target" size="4"/>
    <button id="direct">direct</button>
    <button id="ping">ping</button>
</div>
<div id="log"></div>
<form id="form">
    <input type="submit" value="Send" />
    <input type="text" id="msg" size="64"/>
</form>
</body>
</html>
`))
